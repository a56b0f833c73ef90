package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/gorm"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/coupon"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/handlers"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/middleware"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/service"
)

// NewRouter builds the HTTP router for the orders backend
func NewRouter(db *gorm.DB, auth config.AuthConfig, log *slog.Logger) (http.Handler, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Repositories
	itemRepo := repository.NewItemRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	statusRepo := repository.NewStatusRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Services
	itemService := service.NewItemService(itemRepo)
	orderService := service.NewOrderService(orderRepo, itemRepo, couponRepo, statusRepo, customerRepo)

	// Handlers
	healthHandler := handlers.NewHealthHandler(sqlDB, log)
	itemHandler := handlers.NewItemHandler(itemService, log)
	couponHandler := handlers.NewCouponHandler(coupon.NewValidator(couponRepo), log)
	orderHandler := handlers.NewOrderHandler(orderService, log)
	adminHandler := handlers.NewAdminHandler(
		service.NewCouponService(couponRepo),
		service.NewStatusService(statusRepo),
		service.NewCustomerService(customerRepo),
		log,
	)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.StripSlashes)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.APIKeyHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)

	// Public API
	r.Route("/api", func(r chi.Router) {
		r.Get("/items", itemHandler.ListItems)
		r.Get("/items/{itemId}", itemHandler.GetItem)
		r.Post("/coupons/validate", couponHandler.ValidateCoupon)
	})

	// Admin endpoints
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(auth))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.ListOrders)
			r.Post("/", orderHandler.CreateOrder)
			r.Get("/{orderId}", orderHandler.GetOrder)
			r.Put("/{orderId}", orderHandler.UpdateOrder)
			r.Delete("/{orderId}", orderHandler.DeleteOrder)
			r.Post("/{orderId}/recalculate", orderHandler.RecalculateOrder)
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", adminHandler.ListCoupons)
			r.Post("/", adminHandler.CreateCoupon)
			r.Get("/{couponId}", adminHandler.GetCoupon)
			r.Put("/{couponId}", adminHandler.UpdateCoupon)
			r.Delete("/{couponId}", adminHandler.DeleteCoupon)
		})

		r.Get("/statuses", adminHandler.ListStatuses)
		r.Post("/statuses", adminHandler.CreateStatus)
		r.Delete("/statuses/{statusId}", adminHandler.DeleteStatus)

		r.Post("/items", itemHandler.CreateItem)
		r.Delete("/items/{itemId}", itemHandler.DeleteItem)

		r.Get("/customers", adminHandler.ListCustomers)
		r.Post("/customers", adminHandler.CreateCustomer)
	})

	return r, nil
}
