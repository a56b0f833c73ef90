package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(models.DateLayout)
	return &s
}

// ItemResponse is the catalog item representation
type ItemResponse struct {
	ID        uint      `json:"id"`
	ItemName  string    `json:"item_name"`
	ItemPrice string    `json:"item_price"`
	CreatedAt time.Time `json:"created_at"`
}

func newItemResponse(i models.Item) ItemResponse {
	return ItemResponse{
		ID:        i.ID,
		ItemName:  i.ItemName,
		ItemPrice: money(i.ItemPrice),
		CreatedAt: i.CreatedAt,
	}
}

type CouponResponse struct {
	ID                 uint    `json:"id"`
	Code               string  `json:"code"`
	DiscountPercentage string  `json:"discount_percentage"`
	IsActive           bool    `json:"is_active"`
	ValidFrom          string  `json:"valid_from"`
	ValidUntil         *string `json:"valid_until"`
	ValidNow           bool    `json:"valid_now"`
	Display            string  `json:"display"`
}

func newCouponResponse(c models.Coupon) CouponResponse {
	return CouponResponse{
		ID:                 c.ID,
		Code:               c.Code,
		DiscountPercentage: money(c.DiscountPercentage),
		IsActive:           c.IsActive,
		ValidFrom:          c.ValidFrom.Format(models.DateLayout),
		ValidUntil:         dateString(c.ValidUntil),
		ValidNow:           c.IsValidNow(),
		Display:            c.String(),
	}
}

type StatusResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CustomerResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderSummary is one row of the admin order list
type OrderSummary struct {
	ID         uint      `json:"id"`
	Customer   *string   `json:"customer"`
	FinalPrice string    `json:"final_price"`
	Status     *string   `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func newOrderSummary(o models.Order) OrderSummary {
	s := OrderSummary{
		ID:         o.ID,
		FinalPrice: money(o.FinalPrice),
		CreatedAt:  o.CreatedAt,
	}
	if o.Customer != nil {
		s.Customer = &o.Customer.Username
	}
	if o.Status != nil {
		s.Status = &o.Status.Name
	}
	return s
}

// OrderPricing groups the computed, read-only price fields
type OrderPricing struct {
	TotalPrice     string `json:"total_price"`
	DiscountAmount string `json:"discount_amount"`
	FinalPrice     string `json:"final_price"`
}

type OrderTimestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderItemResponse struct {
	ID          uint    `json:"id"`
	ItemID      *uint   `json:"item_id"`
	Item        *string `json:"item"`
	Quantity    uint    `json:"quantity"`
	PriceAtTime string  `json:"price_at_time"`
	Subtotal    string  `json:"subtotal"`
	Display     string  `json:"display"`
}

// OrderDetail is the admin order view: editable references, then the
// pricing and timestamps fieldsets, then the inline lines.
type OrderDetail struct {
	ID              uint                `json:"id"`
	Display         string              `json:"display"`
	CustomerID      *uint               `json:"customer_id"`
	Customer        *string             `json:"customer"`
	StatusID        *uint               `json:"status_id"`
	Status          *string             `json:"status"`
	AppliedCouponID *uint               `json:"applied_coupon_id"`
	AppliedCoupon   *string             `json:"applied_coupon"`
	Pricing         OrderPricing        `json:"pricing"`
	Timestamps      OrderTimestamps     `json:"timestamps"`
	Items           []OrderItemResponse `json:"items"`
}

func newOrderDetail(o models.Order) OrderDetail {
	d := OrderDetail{
		ID:              o.ID,
		Display:         o.String(),
		CustomerID:      o.CustomerID,
		StatusID:        o.StatusID,
		AppliedCouponID: o.AppliedCouponID,
		Pricing: OrderPricing{
			TotalPrice:     money(o.TotalPrice),
			DiscountAmount: money(o.DiscountAmount),
			FinalPrice:     money(o.FinalPrice),
		},
		Timestamps: OrderTimestamps{
			CreatedAt: o.CreatedAt,
			UpdatedAt: o.UpdatedAt,
		},
		Items: make([]OrderItemResponse, 0, len(o.Items)),
	}
	if o.Customer != nil {
		d.Customer = &o.Customer.Username
	}
	if o.Status != nil {
		d.Status = &o.Status.Name
	}
	if o.AppliedCoupon != nil {
		display := o.AppliedCoupon.String()
		d.AppliedCoupon = &display
	}
	for _, line := range o.Items {
		r := OrderItemResponse{
			ID:          line.ID,
			ItemID:      line.ItemID,
			Quantity:    line.Quantity,
			PriceAtTime: money(line.PriceAtTime),
			Subtotal:    money(line.Subtotal()),
			Display:     line.String(),
		}
		if line.Item != nil {
			r.Item = &line.Item.ItemName
		}
		d.Items = append(d.Items, r)
	}
	return d
}
