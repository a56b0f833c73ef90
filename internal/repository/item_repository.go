package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
)

// ItemRepository defines the interface for catalog item data access
type ItemRepository interface {
	GetAll(ctx context.Context) ([]models.Item, error)
	GetByID(ctx context.Context, id uint) (*models.Item, error)
	Create(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id uint) error
}

// GormItemRepository implements ItemRepository on top of gorm
type GormItemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new catalog item repository
func NewItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// GetAll returns all catalog items in insertion order
func (r *GormItemRepository) GetAll(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := r.db.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID returns a catalog item by its ID
func (r *GormItemRepository) GetByID(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, notFound(err, ErrItemNotFound)
	}
	return &item, nil
}

func (r *GormItemRepository) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Delete removes the item. Order lines that pointed at it keep their
// quantity and price but lose the reference.
func (r *GormItemRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OrderItem{}).
			Where("item_id = ?", id).
			UpdateColumn("item_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Item{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrItemNotFound
		}
		return nil
	})
}
