package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is a customer's (or a guest's) purchase. TotalPrice, DiscountAmount
// and FinalPrice are derived from Items and AppliedCoupon on every save and
// are never taken from callers.
//
// Orders are written with Create or Save on the struct itself so that the
// hooks below see, and can change, the values being written.
type Order struct {
	ID uint `gorm:"primaryKey"`

	CustomerID *uint     `gorm:"index"`
	Customer   *Customer `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	TotalPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	FinalPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	AppliedCouponID *uint
	AppliedCoupon   *Coupon `gorm:"constraint:OnDelete:SET NULL"`

	StatusID *uint        `gorm:"index"`
	Status   *OrderStatus `gorm:"constraint:OnDelete:SET NULL"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE"`
}

func (o Order) String() string {
	if o.Customer != nil {
		return fmt.Sprintf("Order #%d - %s", o.ID, o.Customer.Username)
	}
	return fmt.Sprintf("Order #%d (guest)", o.ID)
}

// Identity reports whether the order has been written yet.
func (o *Order) Identity() Identity {
	return Persisted(o.ID)
}

// Totals returns the order's derived price fields.
func (o *Order) Totals() Totals {
	return Totals{
		TotalPrice:     o.TotalPrice,
		DiscountAmount: o.DiscountAmount,
		FinalPrice:     o.FinalPrice,
	}
}

func (o *Order) applyTotals(t Totals) {
	o.TotalPrice = t.TotalPrice
	o.DiscountAmount = t.DiscountAmount
	o.FinalPrice = t.FinalPrice
}

// CalculatePrices recomputes the derived price fields from the items stored
// for this order and the coupon it currently points at. An unsaved order
// gets zero totals without touching the database.
func (o *Order) CalculatePrices(tx *gorm.DB) error {
	id, ok := o.Identity().ID()
	if !ok {
		o.applyTotals(ComputeTotals(Unsaved(), nil, nil, Today()))
		return nil
	}

	var items []OrderItem
	if err := tx.Where("order_id = ?", id).Find(&items).Error; err != nil {
		return fmt.Errorf("load items of order %d: %w", id, err)
	}

	var coupon *Coupon
	if o.AppliedCouponID != nil {
		var c Coupon
		err := tx.First(&c, *o.AppliedCouponID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			o.AppliedCouponID = nil
		case err != nil:
			return fmt.Errorf("load coupon of order %d: %w", id, err)
		default:
			coupon = &c
		}
	}
	o.AppliedCoupon = coupon

	o.applyTotals(ComputeTotals(o.Identity(), items, coupon, Today()))
	return nil
}

// BeforeSave recomputes totals ahead of every insert and update.
func (o *Order) BeforeSave(tx *gorm.DB) error {
	return o.CalculatePrices(tx)
}

// AfterUpdate recomputes once more after an update-type save and writes
// only the three price columns. UpdateColumns skips hooks, so this does not
// re-enter the save path. It never runs after the initial insert.
func (o *Order) AfterUpdate(tx *gorm.DB) error {
	if err := o.CalculatePrices(tx); err != nil {
		return err
	}
	return tx.Model(o).UpdateColumns(map[string]interface{}{
		"total_price":     o.TotalPrice,
		"discount_amount": o.DiscountAmount,
		"final_price":     o.FinalPrice,
	}).Error
}

// OrderInput carries the admin-editable fields of an order. Prices and
// timestamps are not editable.
type OrderInput struct {
	CustomerID      *uint
	StatusID        *uint
	AppliedCouponID *uint
}

// Apply copies the editable fields onto o and drops stale associations.
func (in OrderInput) Apply(o *Order) {
	o.CustomerID = in.CustomerID
	o.StatusID = in.StatusID
	o.AppliedCouponID = in.AppliedCouponID
	o.Customer = nil
	o.Status = nil
	o.AppliedCoupon = nil
}
