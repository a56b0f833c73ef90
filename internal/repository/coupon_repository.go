package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
)

// CouponRepository defines the interface for coupon data access
type CouponRepository interface {
	List(ctx context.Context) ([]models.Coupon, error)
	GetByID(ctx context.Context, id uint) (*models.Coupon, error)
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	Create(ctx context.Context, coupon *models.Coupon) error
	Update(ctx context.Context, coupon *models.Coupon) error
	Delete(ctx context.Context, id uint) error
}

type GormCouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// List returns coupons with the most recent valid_from first.
func (r *GormCouponRepository) List(ctx context.Context) ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := r.db.WithContext(ctx).Order("valid_from DESC, id DESC").Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

func (r *GormCouponRepository) GetByID(ctx context.Context, id uint) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, id).Error; err != nil {
		return nil, notFound(err, ErrCouponNotFound)
	}
	return &coupon, nil
}

// FindByCode looks a coupon up by code, ignoring case.
func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("LOWER(code) = LOWER(?)", code).
		First(&coupon).Error
	if err != nil {
		return nil, notFound(err, ErrCouponNotFound)
	}
	return &coupon, nil
}

func (r *GormCouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUniqueCode(tx, coupon); err != nil {
			return err
		}
		if err := tx.Create(coupon).Error; err != nil {
			if isDuplicate(err) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
}

func (r *GormCouponRepository) Update(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUniqueCode(tx, coupon); err != nil {
			return err
		}
		res := tx.Save(coupon)
		if res.Error != nil {
			if isDuplicate(res.Error) {
				return ErrDuplicate
			}
			return res.Error
		}
		return nil
	})
}

// Delete removes the coupon and clears it from every order that applied
// it. Those orders keep their stored totals until they are saved again.
func (r *GormCouponRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).
			Where("applied_coupon_id = ?", id).
			UpdateColumn("applied_coupon_id", nil).Error; err != nil {
			return fmt.Errorf("detach coupon %d from orders: %w", id, err)
		}
		res := tx.Delete(&models.Coupon{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCouponNotFound
		}
		return nil
	})
}

// ensureUniqueCode rejects a code that differs from an existing coupon's
// only by case.
func ensureUniqueCode(tx *gorm.DB, coupon *models.Coupon) error {
	var count int64
	err := tx.Model(&models.Coupon{}).
		Where("LOWER(code) = LOWER(?) AND id <> ?", coupon.Code, coupon.ID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return nil
}
