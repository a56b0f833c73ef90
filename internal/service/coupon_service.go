package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/repository"
)

// CouponInput is an admin create or update of a coupon. Nil pointers take
// the default on create (active, valid from today, no expiry) and keep the
// stored value on update.
type CouponInput struct {
	Code               string
	DiscountPercentage decimal.Decimal
	IsActive           *bool
	ValidFrom          *time.Time
	ValidUntil         *time.Time
	ClearValidUntil    bool
}

// CouponService manages coupons for the admin surface
type CouponService struct {
	repo repository.CouponRepository
}

func NewCouponService(repo repository.CouponRepository) *CouponService {
	return &CouponService{repo: repo}
}

func (s *CouponService) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	return s.repo.List(ctx)
}

func (s *CouponService) GetCoupon(ctx context.Context, id uint) (*models.Coupon, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CouponService) CreateCoupon(ctx context.Context, in CouponInput) (*models.Coupon, error) {
	c := &models.Coupon{IsActive: true}
	in.apply(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CouponService) UpdateCoupon(ctx context.Context, id uint, in CouponInput) (*models.Coupon, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCoupon removes the coupon and detaches it from orders
func (s *CouponService) DeleteCoupon(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (in CouponInput) apply(c *models.Coupon) {
	c.Code = in.Code
	c.DiscountPercentage = in.DiscountPercentage
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.ValidFrom != nil {
		c.ValidFrom = *in.ValidFrom
	}
	switch {
	case in.ClearValidUntil:
		c.ValidUntil = nil
	case in.ValidUntil != nil:
		c.ValidUntil = in.ValidUntil
	}
}
