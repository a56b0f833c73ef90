package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/storage/storagetest"
)

type orderEnv struct {
	svc     *OrderService
	widget  *models.Item
	gadget  *models.Item
	alice   *models.Customer
	pending *models.OrderStatus
	save10  *models.Coupon
}

func newOrderEnv(t *testing.T) *orderEnv {
	t.Helper()
	db := storagetest.New(t)
	ctx := context.Background()

	items := repository.NewItemRepository(db)
	coupons := repository.NewCouponRepository(db)
	statuses := repository.NewStatusRepository(db)
	customers := repository.NewCustomerRepository(db)

	env := &orderEnv{
		svc: NewOrderService(repository.NewOrderRepository(db), items, coupons, statuses, customers),
	}

	var err error
	env.widget, err = NewItemService(items).CreateItem(ctx, "Widget", decimal.RequireFromString("10.00"))
	require.NoError(t, err)
	env.gadget, err = NewItemService(items).CreateItem(ctx, "Gadget", decimal.RequireFromString("5.00"))
	require.NoError(t, err)
	env.alice, err = NewCustomerService(customers).CreateCustomer(ctx, "alice", "alice@example.com")
	require.NoError(t, err)
	env.pending, err = NewStatusService(statuses).CreateStatus(ctx, "Pending")
	require.NoError(t, err)
	env.save10, err = NewCouponService(coupons).CreateCoupon(ctx, CouponInput{
		Code:               "SAVE10",
		DiscountPercentage: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	return env
}

func uintPtr(n uint) *uint { return &n }

func fieldErrors(t *testing.T, err error) models.FieldErrors {
	t.Helper()
	var fe models.FieldErrors
	require.ErrorAs(t, err, &fe)
	return fe
}

func TestOrderService_CreateOrder(t *testing.T) {
	env := newOrderEnv(t)

	tests := []struct {
		name      string
		req       OrderRequest
		wantField string
	}{
		{
			name: "guest order without references",
			req:  OrderRequest{},
		},
		{
			name: "order with customer, status and coupon",
			req: OrderRequest{OrderInput: models.OrderInput{
				CustomerID:      &env.alice.ID,
				StatusID:        &env.pending.ID,
				AppliedCouponID: &env.save10.ID,
			}},
		},
		{
			name: "items are rejected on create",
			req: OrderRequest{Items: []models.OrderItemChange{
				{ItemID: &env.widget.ID, Quantity: uintPtr(1)},
			}},
			wantField: "items",
		},
		{
			name:      "unknown customer",
			req:       OrderRequest{OrderInput: models.OrderInput{CustomerID: uintPtr(999)}},
			wantField: "customer_id",
		},
		{
			name:      "unknown status",
			req:       OrderRequest{OrderInput: models.OrderInput{StatusID: uintPtr(999)}},
			wantField: "status_id",
		},
		{
			name:      "unknown coupon",
			req:       OrderRequest{OrderInput: models.OrderInput{AppliedCouponID: uintPtr(999)}},
			wantField: "applied_coupon_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := env.svc.CreateOrder(context.Background(), tt.req)
			if tt.wantField != "" {
				assert.ErrorIs(t, err, models.ErrValidation)
				assert.Contains(t, fieldErrors(t, err), tt.wantField)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, order.ID)
			assert.True(t, order.TotalPrice.IsZero())
			assert.True(t, order.DiscountAmount.IsZero())
			assert.True(t, order.FinalPrice.IsZero())
		})
	}
}

func TestOrderService_UpdateOrder_Totals(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()

	order, err := env.svc.CreateOrder(ctx, OrderRequest{OrderInput: models.OrderInput{AppliedCouponID: &env.save10.ID}})
	require.NoError(t, err)

	order, err = env.svc.UpdateOrder(ctx, order.ID, OrderRequest{
		OrderInput: models.OrderInput{AppliedCouponID: &env.save10.ID},
		Items: []models.OrderItemChange{
			{ItemID: &env.widget.ID, Quantity: uintPtr(2)},
			{ItemID: &env.gadget.ID},
		},
	})
	require.NoError(t, err)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "10.00", order.Items[0].PriceAtTime.StringFixed(2), "price defaults to catalog price")
	assert.Equal(t, uint(1), order.Items[1].Quantity, "quantity defaults to 1")
	assert.Equal(t, "25.00", order.TotalPrice.StringFixed(2))
	assert.Equal(t, "2.50", order.DiscountAmount.StringFixed(2))
	assert.Equal(t, "22.50", order.FinalPrice.StringFixed(2))

	// Removing the coupon drops the discount on the same save.
	order, err = env.svc.UpdateOrder(ctx, order.ID, OrderRequest{})
	require.NoError(t, err)
	assert.Nil(t, order.AppliedCouponID)
	assert.True(t, order.DiscountAmount.IsZero())
	assert.Equal(t, "25.00", order.FinalPrice.StringFixed(2))
}

func TestOrderService_UpdateOrder_PriceIsLocked(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()

	order, err := env.svc.CreateOrder(ctx, OrderRequest{})
	require.NoError(t, err)
	custom := decimal.RequireFromString("8.00")
	order, err = env.svc.UpdateOrder(ctx, order.ID, OrderRequest{Items: []models.OrderItemChange{
		{ItemID: &env.widget.ID, Quantity: uintPtr(1), PriceAtTime: &custom},
	}})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "8.00", order.Items[0].PriceAtTime.StringFixed(2))

	changed := decimal.RequireFromString("1.00")
	order, err = env.svc.UpdateOrder(ctx, order.ID, OrderRequest{Items: []models.OrderItemChange{
		{ID: order.Items[0].ID, Quantity: uintPtr(2), PriceAtTime: &changed},
	}})
	require.NoError(t, err)
	assert.Equal(t, "8.00", order.Items[0].PriceAtTime.StringFixed(2))
	assert.Equal(t, "16.00", order.FinalPrice.StringFixed(2))
}

func TestOrderService_UpdateOrder_Validation(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()

	order, err := env.svc.CreateOrder(ctx, OrderRequest{})
	require.NoError(t, err)
	order, err = env.svc.UpdateOrder(ctx, order.ID, OrderRequest{Items: []models.OrderItemChange{
		{ItemID: &env.widget.ID},
	}})
	require.NoError(t, err)
	lineID := order.Items[0].ID
	negative := decimal.RequireFromString("-1")

	tests := []struct {
		name      string
		items     []models.OrderItemChange
		wantField string
	}{
		{
			name:      "duplicate item on the order",
			items:     []models.OrderItemChange{{ItemID: &env.widget.ID}},
			wantField: "items[0].item_id",
		},
		{
			name:      "duplicate item within the edit",
			items:     []models.OrderItemChange{{ItemID: &env.gadget.ID}, {ItemID: &env.gadget.ID}},
			wantField: "items[1].item_id",
		},
		{
			name:      "zero quantity on a new line",
			items:     []models.OrderItemChange{{ItemID: &env.gadget.ID, Quantity: uintPtr(0)}},
			wantField: "items[0].quantity",
		},
		{
			name:      "zero quantity on an existing line",
			items:     []models.OrderItemChange{{ID: lineID, Quantity: uintPtr(0)}},
			wantField: "items[0].quantity",
		},
		{
			name:      "missing item",
			items:     []models.OrderItemChange{{Quantity: uintPtr(1)}},
			wantField: "items[0].item_id",
		},
		{
			name:      "unknown catalog item",
			items:     []models.OrderItemChange{{ItemID: uintPtr(999)}},
			wantField: "items[0].item_id",
		},
		{
			name:      "line of another order",
			items:     []models.OrderItemChange{{ID: 999, Quantity: uintPtr(1)}},
			wantField: "items[0].id",
		},
		{
			name:      "negative price",
			items:     []models.OrderItemChange{{ItemID: &env.gadget.ID, PriceAtTime: &negative}},
			wantField: "items[0].price_at_time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.UpdateOrder(ctx, order.ID, OrderRequest{Items: tt.items})
			assert.ErrorIs(t, err, models.ErrValidation)
			assert.Contains(t, fieldErrors(t, err), tt.wantField)
		})
	}

	stored, err := env.svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1, "rejected edits leave the lines untouched")
	assert.Equal(t, "10.00", stored.TotalPrice.StringFixed(2))
}

func TestOrderService_UpdateOrder_ReplaceLine(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()

	order, err := env.svc.CreateOrder(ctx, OrderRequest{})
	require.NoError(t, err)
	order, err = env.svc.UpdateOrder(ctx, order.ID, OrderRequest{Items: []models.OrderItemChange{{ItemID: &env.widget.ID}}})
	require.NoError(t, err)

	// Re-adding the same item listed before its deletion still works.
	order, err = env.svc.UpdateOrder(ctx, order.ID, OrderRequest{Items: []models.OrderItemChange{
		{ItemID: &env.widget.ID, Quantity: uintPtr(4)},
		{ID: order.Items[0].ID, Delete: true},
	}})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, uint(4), order.Items[0].Quantity)
	assert.Equal(t, "40.00", order.TotalPrice.StringFixed(2))
}

func TestOrderService_NotFound(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()

	_, err := env.svc.GetOrder(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
	_, err = env.svc.UpdateOrder(ctx, 42, OrderRequest{})
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
	_, err = env.svc.RecalculateOrder(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
	assert.ErrorIs(t, env.svc.DeleteOrder(ctx, 42), repository.ErrOrderNotFound)
}

func TestOrderService_RecalculateOrder(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()

	order, err := env.svc.CreateOrder(ctx, OrderRequest{OrderInput: models.OrderInput{AppliedCouponID: &env.save10.ID}})
	require.NoError(t, err)
	order, err = env.svc.UpdateOrder(ctx, order.ID, OrderRequest{
		OrderInput: models.OrderInput{AppliedCouponID: &env.save10.ID},
		Items:      []models.OrderItemChange{{ItemID: &env.gadget.ID, Quantity: uintPtr(3)}},
	})
	require.NoError(t, err)

	again, err := env.svc.RecalculateOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, order.TotalPrice.Equal(again.TotalPrice))
	assert.True(t, order.DiscountAmount.Equal(again.DiscountAmount))
	assert.True(t, order.FinalPrice.Equal(again.FinalPrice))
	assert.Equal(t, "13.50", again.FinalPrice.StringFixed(2))
}
