package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
)

type StatusRepository interface {
	List(ctx context.Context) ([]models.OrderStatus, error)
	GetByID(ctx context.Context, id uint) (*models.OrderStatus, error)
	Create(ctx context.Context, status *models.OrderStatus) error
	Delete(ctx context.Context, id uint) error
}

type GormStatusRepository struct {
	db *gorm.DB
}

func NewStatusRepository(db *gorm.DB) *GormStatusRepository {
	return &GormStatusRepository{db: db}
}

func (r *GormStatusRepository) List(ctx context.Context) ([]models.OrderStatus, error) {
	var statuses []models.OrderStatus
	if err := r.db.WithContext(ctx).Order("name").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *GormStatusRepository) GetByID(ctx context.Context, id uint) (*models.OrderStatus, error) {
	var status models.OrderStatus
	if err := r.db.WithContext(ctx).First(&status, id).Error; err != nil {
		return nil, notFound(err, ErrStatusNotFound)
	}
	return &status, nil
}

func (r *GormStatusRepository) Create(ctx context.Context, status *models.OrderStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.OrderStatus{}).Where("name = ?", status.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}
		if err := tx.Create(status).Error; err != nil {
			if isDuplicate(err) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
}

// Delete removes the status; orders carrying it are left without one.
func (r *GormStatusRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).
			Where("status_id = ?", id).
			UpdateColumn("status_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.OrderStatus{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusNotFound
		}
		return nil
	})
}
