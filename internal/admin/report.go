// Package admin renders the order back office as terminal tables and seeds
// demo data for it.
package admin

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
)

const timeLayout = "2006-01-02 15:04"

const none = "-"

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func orNone[T any](v *T, f func(*T) string) string {
	if v == nil {
		return none
	}
	return f(v)
}

// RenderOrders writes the order list: id, customer, final price, status and
// creation time, in the order given.
func RenderOrders(w io.Writer, orders []models.Order) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Customer", "Final price", "Status", "Created at")
	for _, o := range orders {
		row := []string{
			strconv.FormatUint(uint64(o.ID), 10),
			orNone(o.Customer, func(c *models.Customer) string { return c.Username }),
			money(o.FinalPrice),
			orNone(o.Status, func(s *models.OrderStatus) string { return s.Name }),
			o.CreatedAt.Local().Format(timeLayout),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// RenderOrder writes one order the way the admin change page lays it out:
// the editable references, the read-only pricing and timestamps fieldsets,
// then the inline lines with their subtotals.
func RenderOrder(w io.Writer, o models.Order) error {
	if _, err := fmt.Fprintln(w, o.String()); err != nil {
		return err
	}

	fieldsets := []struct {
		title string
		rows  [][]string
	}{
		{
			title: "Order",
			rows: [][]string{
				{"Customer", orNone(o.Customer, func(c *models.Customer) string { return c.Username })},
				{"Status", orNone(o.Status, func(s *models.OrderStatus) string { return s.Name })},
				{"Applied coupon", orNone(o.AppliedCoupon, func(c *models.Coupon) string { return c.String() })},
			},
		},
		{
			title: "Pricing",
			rows: [][]string{
				{"Total price", money(o.TotalPrice)},
				{"Discount amount", money(o.DiscountAmount)},
				{"Final price", money(o.FinalPrice)},
			},
		},
		{
			title: "Timestamps",
			rows: [][]string{
				{"Created at", o.CreatedAt.Local().Format(timeLayout)},
				{"Updated at", o.UpdatedAt.Local().Format(timeLayout)},
			},
		},
	}

	for _, fs := range fieldsets {
		table := tablewriter.NewWriter(w)
		table.Header(fs.title, "")
		if err := table.Bulk(fs.rows); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(w)
	table.Header("Line", "Item", "Quantity", "Price at time", "Subtotal")
	for _, line := range o.Items {
		row := []string{
			strconv.FormatUint(uint64(line.ID), 10),
			orNone(line.Item, func(i *models.Item) string { return i.ItemName }),
			strconv.FormatUint(uint64(line.Quantity), 10),
			money(line.PriceAtTime),
			money(line.Subtotal()),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// RenderCoupons writes the coupon list with each coupon's validity on day.
func RenderCoupons(w io.Writer, coupons []models.Coupon, day time.Time) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Code", "Discount %", "Active", "Valid from", "Valid until", "Valid now")
	for _, c := range coupons {
		row := []string{
			strconv.FormatUint(uint64(c.ID), 10),
			c.Code,
			money(c.DiscountPercentage),
			strconv.FormatBool(c.IsActive),
			c.ValidFrom.Format(models.DateLayout),
			orNone(c.ValidUntil, func(t *time.Time) string { return t.Format(models.DateLayout) }),
			strconv.FormatBool(c.IsValidOn(day)),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
