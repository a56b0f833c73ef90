package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/storage/storagetest"
)

func TestCouponService(t *testing.T) {
	svc := NewCouponService(repository.NewCouponRepository(storagetest.New(t)))
	ctx := context.Background()

	created, err := svc.CreateCoupon(ctx, CouponInput{Code: " SAVE10 ", DiscountPercentage: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", created.Code)
	assert.True(t, created.IsActive, "coupons are active by default")
	assert.Equal(t, models.Today(), created.ValidFrom)
	assert.Nil(t, created.ValidUntil)

	_, err = svc.CreateCoupon(ctx, CouponInput{Code: "save10", DiscountPercentage: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = svc.CreateCoupon(ctx, CouponInput{Code: "TOOMUCH", DiscountPercentage: decimal.NewFromInt(150)})
	assert.ErrorIs(t, err, models.ErrValidation)

	inactive := false
	until := models.Today().AddDate(0, 1, 0)
	updated, err := svc.UpdateCoupon(ctx, created.ID, CouponInput{
		Code:               "SAVE10",
		DiscountPercentage: decimal.RequireFromString("12.5"),
		IsActive:           &inactive,
		ValidUntil:         &until,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "12.50", updated.DiscountPercentage.StringFixed(2))
	require.NotNil(t, updated.ValidUntil)

	cleared, err := svc.UpdateCoupon(ctx, created.ID, CouponInput{
		Code:               "SAVE10",
		DiscountPercentage: decimal.RequireFromString("12.5"),
		ClearValidUntil:    true,
	})
	require.NoError(t, err)
	assert.Nil(t, cleared.ValidUntil)
	assert.False(t, cleared.IsActive, "omitted flag keeps the stored value")

	list, err := svc.ListCoupons(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteCoupon(ctx, created.ID))
	_, err = svc.GetCoupon(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrCouponNotFound)
}

func TestStatusAndCustomerServices(t *testing.T) {
	db := storagetest.New(t)
	ctx := context.Background()
	statuses := NewStatusService(repository.NewStatusRepository(db))
	customers := NewCustomerService(repository.NewCustomerRepository(db))

	_, err := statuses.CreateStatus(ctx, "  ")
	assert.ErrorIs(t, err, models.ErrValidation)
	shipped, err := statuses.CreateStatus(ctx, "Shipped")
	require.NoError(t, err)
	_, err = statuses.CreateStatus(ctx, "Shipped")
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	require.NoError(t, statuses.DeleteStatus(ctx, shipped.ID))
	list, err := statuses.ListStatuses(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = customers.CreateCustomer(ctx, "bob", "not-an-email")
	assert.ErrorIs(t, err, models.ErrValidation)
	bob, err := customers.CreateCustomer(ctx, "bob", "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "bob", bob.String())
	all, err := customers.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
