package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/storage/storagetest"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/pkg/logger"
)

// testServer mounts the item, order and registry handlers on a chi router
// backed by a private SQLite database.
type testServer struct {
	db     *gorm.DB
	router chi.Router
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := storagetest.New(t)
	log := logger.New("error")

	items := repository.NewItemRepository(db)
	coupons := repository.NewCouponRepository(db)
	statuses := repository.NewStatusRepository(db)
	customers := repository.NewCustomerRepository(db)
	orders := repository.NewOrderRepository(db)

	itemHandler := NewItemHandler(service.NewItemService(items), log)
	orderHandler := NewOrderHandler(service.NewOrderService(orders, items, coupons, statuses, customers), log)
	adminHandler := NewAdminHandler(
		service.NewCouponService(coupons),
		service.NewStatusService(statuses),
		service.NewCustomerService(customers),
		log,
	)

	r := chi.NewRouter()
	r.Get("/api/items", itemHandler.ListItems)
	r.Get("/api/items/{itemId}", itemHandler.GetItem)
	r.Post("/admin/items", itemHandler.CreateItem)
	r.Delete("/admin/items/{itemId}", itemHandler.DeleteItem)

	r.Get("/admin/orders", orderHandler.ListOrders)
	r.Post("/admin/orders", orderHandler.CreateOrder)
	r.Get("/admin/orders/{orderId}", orderHandler.GetOrder)
	r.Put("/admin/orders/{orderId}", orderHandler.UpdateOrder)
	r.Delete("/admin/orders/{orderId}", orderHandler.DeleteOrder)
	r.Post("/admin/orders/{orderId}/recalculate", orderHandler.RecalculateOrder)

	r.Get("/admin/coupons", adminHandler.ListCoupons)
	r.Post("/admin/coupons", adminHandler.CreateCoupon)
	r.Get("/admin/coupons/{couponId}", adminHandler.GetCoupon)
	r.Put("/admin/coupons/{couponId}", adminHandler.UpdateCoupon)
	r.Delete("/admin/coupons/{couponId}", adminHandler.DeleteCoupon)
	r.Get("/admin/statuses", adminHandler.ListStatuses)
	r.Post("/admin/statuses", adminHandler.CreateStatus)
	r.Delete("/admin/statuses/{statusId}", adminHandler.DeleteStatus)
	r.Get("/admin/customers", adminHandler.ListCustomers)
	r.Post("/admin/customers", adminHandler.CreateCustomer)

	return &testServer{db: db, router: r}
}

// do sends body (marshalled unless it is already a string) and decodes the
// response into out when out is non-nil.
func (s *testServer) do(t *testing.T, method, path string, body interface{}, out interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	if out != nil && rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out), rr.Body.String())
	}
	return rr
}
