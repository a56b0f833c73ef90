package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/admin"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/storage"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/pkg/logger"
)

const usage = `usage: orderadmin <command> [flags]

commands:
  orders   list orders (-status ID -q TEXT -from YYYY-MM-DD -to YYYY-MM-DD)
  order    show one order (-id N)
  coupons  list coupons
  recalc   re-save an order so its prices are recomputed (-id N)
  seed     load demo data into an empty database
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	db, err := storage.Open(cfg.Database, cfg.LogLevel)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer storage.Close(db)

	if err := storage.Migrate(db, cfg.Database.Driver); err != nil {
		log.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	if err := run(context.Background(), db, log, os.Args[1], os.Args[2:]); err != nil {
		log.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, db *gorm.DB, log *slog.Logger, cmd string, args []string) error {
	itemRepo := repository.NewItemRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	orders := service.NewOrderService(
		repository.NewOrderRepository(db),
		itemRepo,
		couponRepo,
		repository.NewStatusRepository(db),
		repository.NewCustomerRepository(db),
	)

	switch cmd {
	case "orders":
		fs := flag.NewFlagSet("orders", flag.ExitOnError)
		status := fs.Uint("status", 0, "only orders with this status id")
		query := fs.String("q", "", "search customer username or email")
		from := fs.String("from", "", "created on or after this day (YYYY-MM-DD)")
		to := fs.String("to", "", "created on or before this day (YYYY-MM-DD)")
		if err := fs.Parse(args); err != nil {
			return err
		}

		filter := repository.OrderFilter{Query: strings.TrimSpace(*query)}
		if *status != 0 {
			id := uint(*status)
			filter.StatusID = &id
		}
		var err error
		if filter.From, err = optionalDate(*from); err != nil {
			return fmt.Errorf("-from: %w", err)
		}
		if filter.To, err = optionalDate(*to); err != nil {
			return fmt.Errorf("-to: %w", err)
		}

		list, err := orders.ListOrders(ctx, filter)
		if err != nil {
			return err
		}
		return admin.RenderOrders(os.Stdout, list)

	case "order", "recalc":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.Uint("id", 0, "order id")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *id == 0 {
			return errors.New("-id is required")
		}

		var (
			order *models.Order
			err   error
		)
		if cmd == "recalc" {
			order, err = orders.RecalculateOrder(ctx, uint(*id))
			if err == nil {
				log.Info("order recalculated", "order_id", order.ID, "final_price", order.FinalPrice.StringFixed(2))
			}
		} else {
			order, err = orders.GetOrder(ctx, uint(*id))
		}
		if err != nil {
			return err
		}
		return admin.RenderOrder(os.Stdout, *order)

	case "coupons":
		list, err := service.NewCouponService(couponRepo).ListCoupons(ctx)
		if err != nil {
			return err
		}
		return admin.RenderCoupons(os.Stdout, list, models.Today())

	case "seed":
		order, err := admin.Seed(ctx, db)
		if errors.Is(err, admin.ErrAlreadySeeded) {
			log.Info("skipping seed", "reason", err)
			return nil
		}
		if err != nil {
			return err
		}
		log.Info("demo data loaded", "order_id", order.ID)
		return admin.RenderOrder(os.Stdout, *order)

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
