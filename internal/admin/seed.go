package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/service"
)

// ErrAlreadySeeded is returned when the catalog already has items.
var ErrAlreadySeeded = errors.New("database already has catalog items")

var demoItems = []struct {
	name  string
	price string
}{
	{"Waffle with Berries", "6.50"},
	{"Vanilla Bean Crème Brûlée", "7.00"},
	{"Macaron Mix of Five", "8.00"},
	{"Classic Tiramisu", "5.50"},
}

var demoStatuses = []string{"pending", "paid", "shipped", "cancelled"}

var demoCustomers = []struct {
	username string
	email    string
}{
	{"alice", "alice@example.com"},
	{"bob", "bob@example.com"},
}

// Seed fills an empty database with a demo catalog, statuses, customers,
// two coupons and one priced order, all through the admin services so every
// validation and recompute hook runs. It returns the demo order.
func Seed(ctx context.Context, db *gorm.DB) (*models.Order, error) {
	itemRepo := repository.NewItemRepository(db)
	existing, err := itemRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrAlreadySeeded
	}

	couponRepo := repository.NewCouponRepository(db)
	statusRepo := repository.NewStatusRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	items := service.NewItemService(itemRepo)
	coupons := service.NewCouponService(couponRepo)
	statuses := service.NewStatusService(statusRepo)
	customers := service.NewCustomerService(customerRepo)
	orders := service.NewOrderService(repository.NewOrderRepository(db), itemRepo, couponRepo, statusRepo, customerRepo)

	var itemIDs []uint
	for _, it := range demoItems {
		item, err := items.CreateItem(ctx, it.name, decimal.RequireFromString(it.price))
		if err != nil {
			return nil, fmt.Errorf("seed item %q: %w", it.name, err)
		}
		itemIDs = append(itemIDs, item.ID)
	}

	var pending *models.OrderStatus
	for _, name := range demoStatuses {
		s, err := statuses.CreateStatus(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("seed status %q: %w", name, err)
		}
		if pending == nil {
			pending = s
		}
	}

	var firstCustomer *models.Customer
	for _, c := range demoCustomers {
		cust, err := customers.CreateCustomer(ctx, c.username, c.email)
		if err != nil {
			return nil, fmt.Errorf("seed customer %q: %w", c.username, err)
		}
		if firstCustomer == nil {
			firstCustomer = cust
		}
	}

	welcome, err := coupons.CreateCoupon(ctx, service.CouponInput{
		Code:               "WELCOME10",
		DiscountPercentage: decimal.NewFromInt(10),
	})
	if err != nil {
		return nil, fmt.Errorf("seed coupon: %w", err)
	}
	inactive := false
	if _, err := coupons.CreateCoupon(ctx, service.CouponInput{
		Code:               "RETIRED50",
		DiscountPercentage: decimal.NewFromInt(50),
		IsActive:           &inactive,
	}); err != nil {
		return nil, fmt.Errorf("seed coupon: %w", err)
	}

	input := models.OrderInput{
		CustomerID:      &firstCustomer.ID,
		StatusID:        &pending.ID,
		AppliedCouponID: &welcome.ID,
	}
	order, err := orders.CreateOrder(ctx, service.OrderRequest{OrderInput: input})
	if err != nil {
		return nil, fmt.Errorf("seed order: %w", err)
	}

	two, one := uint(2), uint(1)
	return orders.UpdateOrder(ctx, order.ID, service.OrderRequest{
		OrderInput: input,
		Items: []models.OrderItemChange{
			{ItemID: &itemIDs[0], Quantity: &two},
			{ItemID: &itemIDs[2], Quantity: &one},
		},
	})
}
