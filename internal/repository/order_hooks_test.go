package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
)

// priceWrites records every column-only write of the three order totals.
type priceWrites struct {
	columns   [][]string
	skipHooks []bool
}

func recordPriceWrites(t *testing.T, db *gorm.DB) *priceWrites {
	t.Helper()
	w := &priceWrites{}
	err := db.Callback().Update().After("gorm:update").Register("test:record_price_writes", func(tx *gorm.DB) {
		values, ok := tx.Statement.Dest.(map[string]interface{})
		if !ok {
			return
		}
		if _, ok := values["final_price"]; !ok {
			return
		}
		var cols []string
		for k := range values {
			cols = append(cols, k)
		}
		w.columns = append(w.columns, cols)
		w.skipHooks = append(w.skipHooks, tx.Statement.SkipHooks)
	})
	require.NoError(t, err)
	return w
}

func (f *fixture) orderWithWidgets(t *testing.T, n uint) (*models.Order, uint) {
	t.Helper()
	ctx := context.Background()
	c := f.coupon(t, "SAVE10", "10", true)

	order := &models.Order{AppliedCouponID: &c.ID}
	require.NoError(t, f.orders.Create(ctx, order))
	require.NoError(t, f.orders.Update(ctx, order, []models.OrderItemChange{addLine(f.widget.ID, n, "10.00")}))

	stored, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	return stored, stored.Items[0].ID
}

func TestOrderHooks_ReactiveRecomputeSkippedOnCreate(t *testing.T) {
	f := newFixture(t)
	writes := recordPriceWrites(t, f.db)
	c := f.coupon(t, "SAVE10", "10", true)

	order := &models.Order{AppliedCouponID: &c.ID}
	require.NoError(t, f.orders.Create(context.Background(), order))

	assert.Empty(t, writes.columns)
	assert.True(t, order.FinalPrice.IsZero())
}

func TestOrderHooks_SaveWritesPriceColumns(t *testing.T) {
	f := newFixture(t)
	order, _ := f.orderWithWidgets(t, 2)
	writes := recordPriceWrites(t, f.db)

	require.NoError(t, f.orders.Save(context.Background(), order))

	require.Len(t, writes.columns, 1)
	assert.ElementsMatch(t, []string{"total_price", "discount_amount", "final_price"}, writes.columns[0])
	assert.True(t, writes.skipHooks[0], "column write must not re-enter the hooks")
}

func TestOrderHooks_ReactiveRecomputeSeesLineEditedDuringSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order, lineID := f.orderWithWidgets(t, 2)
	assert.Equal(t, "18.00", order.FinalPrice.StringFixed(2))

	// Edit the line after the pre-save computation has run but before the
	// order row is written. Only the after-update recompute can see it.
	armed := true
	err := f.db.Callback().Update().After("gorm:before_update").Before("gorm:update").
		Register("test:edit_line_mid_save", func(tx *gorm.DB) {
			if _, ok := tx.Statement.Model.(*models.Order); !ok || !armed {
				return
			}
			armed = false
			_, err := tx.Statement.ConnPool.ExecContext(tx.Statement.Context,
				"UPDATE order_items SET quantity = ? WHERE id = ?", 4, lineID)
			if err != nil {
				_ = tx.AddError(err)
			}
		})
	require.NoError(t, err)

	require.NoError(t, f.orders.Save(ctx, order))
	require.False(t, armed)

	stored, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(4), stored.Items[0].Quantity)
	assert.Equal(t, "40.00", stored.TotalPrice.StringFixed(2))
	assert.Equal(t, "4.00", stored.DiscountAmount.StringFixed(2))
	assert.Equal(t, "36.00", stored.FinalPrice.StringFixed(2))
}

func TestOrderHooks_SavePicksUpOutOfBandLineChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order, lineID := f.orderWithWidgets(t, 2)

	require.NoError(t, f.db.Model(&models.OrderItem{}).Where("id = ?", lineID).UpdateColumn("quantity", 5).Error)

	stale, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "20.00", stale.TotalPrice.StringFixed(2), "totals are only refreshed by a save")

	require.NoError(t, f.orders.Save(ctx, stale))

	stored, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "50.00", stored.TotalPrice.StringFixed(2))
	assert.Equal(t, "5.00", stored.DiscountAmount.StringFixed(2))
	assert.Equal(t, "45.00", stored.FinalPrice.StringFixed(2))
}
