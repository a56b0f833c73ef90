package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem is one line of an order: a catalog item at a fixed quantity and
// the unit price locked in when the line was added. The (order, item) pair
// is unique.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey"`
	OrderID     uint            `gorm:"not null;uniqueIndex:idx_order_items_order_item"`
	ItemID      *uint           `gorm:"uniqueIndex:idx_order_items_order_item"`
	Item        *Item           `gorm:"constraint:OnDelete:SET NULL"`
	Quantity    uint            `gorm:"not null"`
	PriceAtTime decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

func (i OrderItem) String() string {
	name := "Item"
	if i.Item != nil {
		name = i.Item.ItemName
	}
	return fmt.Sprintf("%d × %s", i.Quantity, name)
}

// Subtotal is quantity × unit price at order time.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtTime.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i *OrderItem) Validate() error {
	errs := FieldErrors{}
	if i.Quantity < 1 {
		errs.Add("quantity", "Ensure this value is greater than or equal to 1.")
	}
	if i.PriceAtTime.IsNegative() {
		errs.Add("price_at_time", "Ensure this value is greater than or equal to 0.")
	}
	return errs.Err()
}

func (i *OrderItem) BeforeSave(tx *gorm.DB) error {
	return i.Validate()
}

// OrderItemChange is one row of the inline item editor. A zero ID adds a
// new line; otherwise the existing line is updated or, with Delete set,
// removed. Only Quantity can change on an existing line, and a nil
// Quantity leaves it as it is.
type OrderItemChange struct {
	ID          uint
	ItemID      *uint
	Quantity    *uint
	PriceAtTime *decimal.Decimal
	Delete      bool
}
