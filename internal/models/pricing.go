package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// amountPlaces is the scale of every stored monetary column.
const amountPlaces = 2

// Totals are the derived price fields of an order.
type Totals struct {
	TotalPrice     decimal.Decimal
	DiscountAmount decimal.Decimal
	FinalPrice     decimal.Decimal
}

// ComputeTotals derives an order's prices.
//
// An unsaved order cannot have items yet, so its totals are all zero
// whatever items are passed. Otherwise the subtotal is the sum of the line
// subtotals; a coupon that is valid on the given day takes its percentage
// off the subtotal. Amounts are rounded half-to-even to two places, the
// discount before it is subtracted, so TotalPrice always equals
// DiscountAmount + FinalPrice.
func ComputeTotals(identity Identity, items []OrderItem, coupon *Coupon, day time.Time) Totals {
	if !identity.IsPersisted() {
		return Totals{
			TotalPrice:     decimal.Zero,
			DiscountAmount: decimal.Zero,
			FinalPrice:     decimal.Zero,
		}
	}

	subtotal := decimal.Zero
	for i := range items {
		subtotal = subtotal.Add(items[i].Subtotal())
	}
	subtotal = subtotal.RoundBank(amountPlaces)

	discount := decimal.Zero
	if coupon != nil && coupon.IsValidOn(day) {
		discount = subtotal.Mul(coupon.DiscountPercentage).Div(hundred).RoundBank(amountPlaces)
	}

	return Totals{
		TotalPrice:     subtotal,
		DiscountAmount: discount,
		FinalPrice:     subtotal.Sub(discount),
	}
}
