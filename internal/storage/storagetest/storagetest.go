// Package storagetest opens throwaway databases for tests.
package storagetest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/orders-backend/internal/storage"
)

// New returns a migrated in-memory SQLite database private to t. The pool
// is limited to one connection, so code running inside a transaction must
// use the transaction handle for every query.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
	}

	db, err := storage.Open(cfg, "error")
	require.NoError(t, err)
	require.NoError(t, storage.Migrate(db, cfg.Driver))

	t.Cleanup(func() {
		_ = storage.Close(db)
	})
	return db
}
