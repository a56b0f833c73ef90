package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/models"
)

// Models lists every persisted type in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.Customer{},
		&models.Item{},
		&models.OrderStatus{},
		&models.Coupon{},
		&models.Order{},
		&models.OrderItem{},
	}
}

// DSN builds the driver-specific connection string for cfg.
func DSN(cfg config.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		// Calendar dates are UTC midnights, so the session must not shift them.
		params := cfg.Params
		if params == "" {
			params = "charset=utf8mb4&parseTime=True&loc=UTC"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, params), nil
	case config.DriverPostgres:
		params := cfg.Params
		if params == "" {
			params = "sslmode=disable"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s %s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, params), nil
	case config.DriverSQLite:
		sep := "?"
		if strings.Contains(cfg.Path, "?") {
			sep = "&"
		}
		return cfg.Path + sep + "_pragma=foreign_keys(1)", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case config.DriverMySQL:
		return mysql.Open(dsn), nil
	case config.DriverPostgres:
		return postgres.New(postgres.Config{DriverName: "postgres", DSN: dsn}), nil
	default:
		return sqlite.Open(dsn), nil
	}
}

// Open returns a gorm DB for the configured driver with the pool limits
// applied. logLevel follows LOG_LEVEL: "debug" logs every statement, anything
// else only slow queries and errors.
func Open(cfg config.DatabaseConfig, logLevel string) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if strings.EqualFold(logLevel, "debug") {
		level = logger.Info
	}

	gdb, err := gorm.Open(d, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	}

	return gdb, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
