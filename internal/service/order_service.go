package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/repository"
)

const (
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	msgRequired      = "This field is required."
	msgMinQuantity   = "Ensure this value is greater than or equal to 1."
	msgMinPrice      = "Ensure this value is greater than or equal to 0."
	msgDuplicateLine = "Order item with this Order and Item already exists."
	msgItemsOnCreate = "Items can only be added to an order that has been saved."
)

// OrderRequest is an admin create or update of an order. Items is the
// inline line editor; it must be empty on create.
type OrderRequest struct {
	models.OrderInput
	Items []models.OrderItemChange
}

// OrderService handles order business logic for the admin surface
type OrderService struct {
	orders    repository.OrderRepository
	items     repository.ItemRepository
	coupons   repository.CouponRepository
	statuses  repository.StatusRepository
	customers repository.CustomerRepository
}

// NewOrderService creates a new order service
func NewOrderService(
	orders repository.OrderRepository,
	items repository.ItemRepository,
	coupons repository.CouponRepository,
	statuses repository.StatusRepository,
	customers repository.CustomerRepository,
) *OrderService {
	return &OrderService{
		orders:    orders,
		items:     items,
		coupons:   coupons,
		statuses:  statuses,
		customers: customers,
	}
}

// ListOrders returns orders matching filter, newest first
func (s *OrderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]models.Order, error) {
	return s.orders.List(ctx, filter)
}

// GetOrder returns an order with its lines
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// CreateOrder stores a new order without lines. Its computed prices start
// at zero.
func (s *OrderService) CreateOrder(ctx context.Context, req OrderRequest) (*models.Order, error) {
	errs := models.FieldErrors{}
	if len(req.Items) > 0 {
		errs.Add("items", msgItemsOnCreate)
	}
	if err := s.checkReferences(ctx, req.OrderInput, errs); err != nil {
		return nil, err
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	order := &models.Order{}
	req.Apply(order)
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, order.ID)
}

// UpdateOrder applies the editable fields and the inline line edits, then
// saves the order so its prices are recomputed.
func (s *OrderService) UpdateOrder(ctx context.Context, id uint, req OrderRequest) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	errs := models.FieldErrors{}
	if err := s.checkReferences(ctx, req.OrderInput, errs); err != nil {
		return nil, err
	}
	changes, err := s.resolveItemChanges(ctx, order, req.Items, errs)
	if err != nil {
		return nil, err
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	req.Apply(order)
	if err := s.orders.Update(ctx, order, changes); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, id)
}

// DeleteOrder removes an order and its lines
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	return s.orders.Delete(ctx, id)
}

// RecalculateOrder re-saves an order unchanged so both recompute hooks run
func (s *OrderService) RecalculateOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, id)
}

// checkReferences records a field error for every referenced row that does
// not exist. Only storage failures are returned.
func (s *OrderService) checkReferences(ctx context.Context, in models.OrderInput, errs models.FieldErrors) error {
	if in.CustomerID != nil {
		if _, err := s.customers.GetByID(ctx, *in.CustomerID); err != nil {
			if !errors.Is(err, repository.ErrCustomerNotFound) {
				return err
			}
			errs.Add("customer_id", msgInvalidChoice)
		}
	}
	if in.StatusID != nil {
		if _, err := s.statuses.GetByID(ctx, *in.StatusID); err != nil {
			if !errors.Is(err, repository.ErrStatusNotFound) {
				return err
			}
			errs.Add("status_id", msgInvalidChoice)
		}
	}
	if in.AppliedCouponID != nil {
		if _, err := s.coupons.GetByID(ctx, *in.AppliedCouponID); err != nil {
			if !errors.Is(err, repository.ErrCouponNotFound) {
				return err
			}
			errs.Add("applied_coupon_id", msgInvalidChoice)
		}
	}
	return nil
}

// resolveItemChanges validates the inline edits against the order's current
// lines and fills defaults: quantity 1 and the catalog price for new lines.
// Price edits on existing lines are dropped. Deletions are ordered first so
// an item can be removed and re-added in one edit.
func (s *OrderService) resolveItemChanges(ctx context.Context, order *models.Order, in []models.OrderItemChange, errs models.FieldErrors) ([]models.OrderItemChange, error) {
	existing := make(map[uint]models.OrderItem, len(order.Items))
	taken := make(map[uint]bool, len(order.Items))
	for _, line := range order.Items {
		existing[line.ID] = line
		if line.ItemID != nil {
			taken[*line.ItemID] = true
		}
	}
	for _, ch := range in {
		if ch.ID != 0 && ch.Delete {
			if line, ok := existing[ch.ID]; ok && line.ItemID != nil {
				delete(taken, *line.ItemID)
			}
		}
	}

	var deletes, updates, adds []models.OrderItemChange
	for i, ch := range in {
		field := func(name string) string { return fmt.Sprintf("items[%d].%s", i, name) }

		if ch.ID != 0 {
			if _, ok := existing[ch.ID]; !ok {
				errs.Add(field("id"), msgInvalidChoice)
				continue
			}
			if !ch.Delete && ch.Quantity != nil && *ch.Quantity < 1 {
				errs.Add(field("quantity"), msgMinQuantity)
				continue
			}
			resolved := models.OrderItemChange{ID: ch.ID, Quantity: ch.Quantity, Delete: ch.Delete}
			if ch.Delete {
				deletes = append(deletes, resolved)
			} else {
				updates = append(updates, resolved)
			}
			continue
		}

		if ch.Delete {
			continue
		}
		if ch.ItemID == nil {
			errs.Add(field("item_id"), msgRequired)
			continue
		}
		item, err := s.items.GetByID(ctx, *ch.ItemID)
		if errors.Is(err, repository.ErrItemNotFound) {
			errs.Add(field("item_id"), msgInvalidChoice)
			continue
		}
		if err != nil {
			return nil, err
		}
		if taken[item.ID] {
			errs.Add(field("item_id"), msgDuplicateLine)
			continue
		}
		taken[item.ID] = true

		resolved := ch
		if resolved.Quantity == nil {
			one := uint(1)
			resolved.Quantity = &one
		} else if *resolved.Quantity < 1 {
			errs.Add(field("quantity"), msgMinQuantity)
			continue
		}
		if resolved.PriceAtTime == nil {
			price := item.ItemPrice
			resolved.PriceAtTime = &price
		} else if resolved.PriceAtTime.IsNegative() {
			errs.Add(field("price_at_time"), msgMinPrice)
			continue
		}
		adds = append(adds, resolved)
	}
	return append(append(deletes, updates...), adds...), nil
}
