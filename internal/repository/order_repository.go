package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
)

// OrderFilter narrows the admin order list. Zero values mean "any".
// From and To bound created_at by calendar day, both inclusive. Year, Month
// and Day drill down the same way; Month needs Year and Day needs Month.
type OrderFilter struct {
	StatusID *uint
	From     *time.Time
	To       *time.Time
	Year     int
	Month    int
	Day      int
	Query    string
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	Save(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, order *models.Order, changes []models.OrderItemChange) error
	Delete(ctx context.Context, id uint) error
}

type GormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Status").
		Preload("AppliedCoupon")
}

// List returns orders newest first.
func (r *GormOrderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	q := r.preloaded(ctx).Model(&models.Order{}).Select("orders.*")

	if filter.StatusID != nil {
		q = q.Where("orders.status_id = ?", *filter.StatusID)
	}
	if filter.From != nil {
		q = q.Where("orders.created_at >= ?", dayStart(*filter.From))
	}
	if filter.To != nil {
		q = q.Where("orders.created_at < ?", dayStart(*filter.To).AddDate(0, 0, 1))
	}
	if start, end, ok := filter.drillDown(); ok {
		q = q.Where("orders.created_at >= ? AND orders.created_at < ?", start, end)
	}
	if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Joins("LEFT JOIN customers ON customers.id = orders.customer_id").
			Where("LOWER(customers.username) LIKE ? OR LOWER(customers.email) LIKE ?", like, like)
	}

	var orders []models.Order
	if err := q.Order("orders.created_at DESC, orders.id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GetByID returns the order with its customer, status, coupon and lines.
func (r *GormOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.preloaded(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Item").
		First(&order, id).Error
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	return &order, nil
}

// Create inserts an order. Hooks see an unsaved order, so every computed
// field is written as zero.
func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	order.Items = nil
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

// Save writes the order's own columns, which runs both recompute hooks.
func (r *GormOrderRepository) Save(ctx context.Context, order *models.Order) error {
	return saveOrder(r.db.WithContext(ctx), order)
}

// Update applies the inline line edits and then saves the order, all in
// one transaction, so the stored totals reflect the edited lines.
func (r *GormOrderRepository) Update(ctx context.Context, order *models.Order, changes []models.OrderItemChange) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range changes {
			if err := applyItemChange(tx, order.ID, changes[i]); err != nil {
				return err
			}
		}
		return saveOrder(tx, order)
	})
}

// Delete removes the order and its lines.
func (r *GormOrderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("delete items of order %d: %w", id, err)
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotFound
		}
		return nil
	})
}

func saveOrder(tx *gorm.DB, order *models.Order) error {
	if err := tx.Omit(clause.Associations, "CreatedAt").Save(order).Error; err != nil {
		return fmt.Errorf("save order %d: %w", order.ID, err)
	}
	return nil
}

func applyItemChange(tx *gorm.DB, orderID uint, ch models.OrderItemChange) error {
	if ch.ID == 0 {
		line := models.OrderItem{
			OrderID:  orderID,
			ItemID:   ch.ItemID,
			Quantity: 1,
		}
		if ch.Quantity != nil {
			line.Quantity = *ch.Quantity
		}
		if ch.PriceAtTime != nil {
			line.PriceAtTime = *ch.PriceAtTime
		}
		if ch.ItemID != nil {
			var count int64
			if err := tx.Model(&models.OrderItem{}).
				Where("order_id = ? AND item_id = ?", orderID, *ch.ItemID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrDuplicate
			}
		}
		if err := tx.Omit(clause.Associations).Create(&line).Error; err != nil {
			if isDuplicate(err) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	}

	var line models.OrderItem
	if err := tx.Where("id = ? AND order_id = ?", ch.ID, orderID).First(&line).Error; err != nil {
		return notFound(err, ErrOrderItemNotFound)
	}
	if ch.Delete {
		return tx.Delete(&line).Error
	}
	if ch.Quantity == nil {
		return nil
	}
	line.Quantity = *ch.Quantity
	return tx.Omit(clause.Associations).Save(&line).Error
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// drillDown turns Year/Month/Day into a half-open created_at range.
func (f OrderFilter) drillDown() (time.Time, time.Time, bool) {
	switch {
	case f.Year == 0:
		return time.Time{}, time.Time{}, false
	case f.Month == 0:
		start := time.Date(f.Year, time.January, 1, 0, 0, 0, 0, time.Local)
		return start, start.AddDate(1, 0, 0), true
	case f.Day == 0:
		start := time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, time.Local)
		return start, start.AddDate(0, 1, 0), true
	default:
		start := time.Date(f.Year, time.Month(f.Month), f.Day, 0, 0, 0, 0, time.Local)
		return start, start.AddDate(0, 0, 1), true
	}
}
