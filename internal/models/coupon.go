package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// Coupon is a percentage discount code with an activity flag and a validity
// window. ValidUntil nil means the coupon never expires.
type Coupon struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	Code               string          `gorm:"size:50;uniqueIndex;not null" json:"code"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"discount_percentage"`
	IsActive           bool            `gorm:"not null" json:"is_active"`
	ValidFrom          time.Time       `gorm:"type:date;not null" json:"valid_from"`
	ValidUntil         *time.Time      `gorm:"type:date" json:"valid_until,omitempty"`
}

func (c Coupon) String() string {
	return fmt.Sprintf("%s (%s%%)", c.Code, c.DiscountPercentage.StringFixed(2))
}

// IsValidOn reports whether the coupon can be applied on the given day:
// it is active, the day is not before ValidFrom, and the day is not after
// ValidUntil when one is set. Days compare by calendar date.
func (c *Coupon) IsValidOn(day time.Time) bool {
	if !c.IsActive {
		return false
	}
	today := DateOf(day)
	if DateOf(c.ValidFrom).After(today) {
		return false
	}
	if c.ValidUntil != nil && today.After(DateOf(*c.ValidUntil)) {
		return false
	}
	return true
}

// IsValidNow is IsValidOn for the current day.
func (c *Coupon) IsValidNow() bool {
	return c.IsValidOn(Today())
}

// Validate normalises the coupon and checks the percentage range.
func (c *Coupon) Validate() error {
	errs := FieldErrors{}
	c.Code = strings.TrimSpace(c.Code)
	if c.Code == "" {
		errs.Add("code", "This field is required.")
	} else if utf8.RuneCountInString(c.Code) > 50 {
		errs.Add("code", "Ensure this field has no more than 50 characters.")
	}
	if c.DiscountPercentage.IsNegative() {
		errs.Add("discount_percentage", "Ensure this value is greater than or equal to 0.")
	} else if c.DiscountPercentage.GreaterThan(hundred) {
		errs.Add("discount_percentage", "Ensure this value is less than or equal to 100.")
	} else if c.DiscountPercentage.Exponent() < -2 {
		errs.Add("discount_percentage", "Ensure that there are no more than 2 decimal places.")
	}
	if c.ValidFrom.IsZero() {
		c.ValidFrom = Today()
	}
	c.ValidFrom = DateOf(c.ValidFrom)
	if c.ValidUntil != nil {
		until := DateOf(*c.ValidUntil)
		c.ValidUntil = &until
	}
	return errs.Err()
}

// BeforeSave keeps the percentage invariant on every write path.
func (c *Coupon) BeforeSave(tx *gorm.DB) error {
	return c.Validate()
}
