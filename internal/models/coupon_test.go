package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCoupon_IsValidOn(t *testing.T) {
	today := time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)
	day := func(offset int) time.Time { return DateOf(today).AddDate(0, 0, offset) }
	ptr := func(t time.Time) *time.Time { return &t }

	tests := []struct {
		name   string
		coupon Coupon
		want   bool
	}{
		{
			name:   "active, started, no expiry",
			coupon: Coupon{IsActive: true, ValidFrom: day(-10)},
			want:   true,
		},
		{
			name:   "starts today",
			coupon: Coupon{IsActive: true, ValidFrom: day(0)},
			want:   true,
		},
		{
			name:   "expires today",
			coupon: Coupon{IsActive: true, ValidFrom: day(-1), ValidUntil: ptr(day(0))},
			want:   true,
		},
		{
			name:   "expired yesterday",
			coupon: Coupon{IsActive: true, ValidFrom: day(-5), ValidUntil: ptr(day(-1))},
			want:   false,
		},
		{
			name:   "starts tomorrow",
			coupon: Coupon{IsActive: true, ValidFrom: day(1)},
			want:   false,
		},
		{
			name:   "inactive inside window",
			coupon: Coupon{IsActive: false, ValidFrom: day(-1), ValidUntil: ptr(day(1))},
			want:   false,
		},
		{
			name:   "time of day is ignored",
			coupon: Coupon{IsActive: true, ValidFrom: today.Add(3 * time.Hour)},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.coupon.IsValidOn(today))
		})
	}
}

func TestCoupon_Validate(t *testing.T) {
	tests := []struct {
		name      string
		coupon    Coupon
		wantField string
	}{
		{name: "zero percent", coupon: Coupon{Code: "ZERO", DiscountPercentage: dec("0")}},
		{name: "hundred percent", coupon: Coupon{Code: "ALL", DiscountPercentage: dec("100.00")}},
		{name: "above hundred", coupon: Coupon{Code: "BAD", DiscountPercentage: dec("100.01")}, wantField: "discount_percentage"},
		{name: "negative", coupon: Coupon{Code: "NEG", DiscountPercentage: dec("-1")}, wantField: "discount_percentage"},
		{name: "three places", coupon: Coupon{Code: "FINE", DiscountPercentage: dec("1.125")}, wantField: "discount_percentage"},
		{name: "fifty cyrillic letters", coupon: Coupon{Code: strings.Repeat("Ж", 50), DiscountPercentage: dec("5")}},
		{name: "fifty-one letters", coupon: Coupon{Code: strings.Repeat("Ж", 51), DiscountPercentage: dec("5")}, wantField: "code"},
		{name: "blank code", coupon: Coupon{Code: "   ", DiscountPercentage: dec("5")}, wantField: "code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.coupon.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				assert.False(t, tt.coupon.ValidFrom.IsZero(), "valid_from defaults to today")
				return
			}
			var fe FieldErrors
			if assert.ErrorAs(t, err, &fe) {
				assert.Contains(t, fe, tt.wantField)
			}
		})
	}
}

func TestCoupon_String(t *testing.T) {
	c := Coupon{Code: "SAVE10", DiscountPercentage: dec("10")}
	assert.Equal(t, "SAVE10 (10.00%)", c.String())
}
