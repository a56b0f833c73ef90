package coupon

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/repository"
)

var (
	ErrCodeRequired   = errors.New("coupon code is required")
	ErrCouponNotFound = errors.New("invalid coupon code")
	ErrCouponNotValid = errors.New("coupon is not active or has expired")
)

// Finder looks coupons up by code, ignoring case.
type Finder interface {
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
}

// Validator answers whether a coupon code can be used today. It never
// modifies the coupon.
type Validator struct {
	coupons Finder
	now     func() time.Time
}

// NewValidator creates a new coupon validator
func NewValidator(coupons Finder) *Validator {
	return &Validator{
		coupons: coupons,
		now:     time.Now,
	}
}

// Validate trims code, looks it up and checks the coupon's active flag and
// validity window against the current day. On success it returns the stored
// coupon, whose code carries its canonical casing.
func (v *Validator) Validate(ctx context.Context, code string) (*models.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrCodeRequired
	}

	c, err := v.coupons.FindByCode(ctx, code)
	if errors.Is(err, repository.ErrCouponNotFound) {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}

	if !c.IsValidOn(v.now()) {
		return nil, ErrCouponNotValid
	}
	return c, nil
}
