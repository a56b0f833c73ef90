package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/repository"
)

// ItemService handles business logic for catalog items
type ItemService struct {
	repo repository.ItemRepository
}

// NewItemService creates a new catalog item service
func NewItemService(repo repository.ItemRepository) *ItemService {
	return &ItemService{
		repo: repo,
	}
}

// ListItems returns all catalog items
func (s *ItemService) ListItems(ctx context.Context) ([]models.Item, error) {
	return s.repo.GetAll(ctx)
}

// GetItem returns a catalog item by ID
func (s *ItemService) GetItem(ctx context.Context, id uint) (*models.Item, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateItem validates and stores a new catalog item
func (s *ItemService) CreateItem(ctx context.Context, name string, price decimal.Decimal) (*models.Item, error) {
	item := &models.Item{ItemName: name, ItemPrice: price}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes a catalog item; order lines keep their captured price
func (s *ItemService) DeleteItem(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
