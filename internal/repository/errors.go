package repository

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrCouponNotFound    = errors.New("coupon not found")
	ErrStatusNotFound    = errors.New("order status not found")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderItemNotFound = errors.New("order item not found")
	ErrDuplicate         = errors.New("record already exists")
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint hit.
const uniqueViolation = "23505"

// isDuplicate reports whether err is a unique constraint violation. gorm
// translates MySQL and SQLite errors; lib/pq errors are matched by code.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// notFound maps gorm's missing-row error onto the given sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
