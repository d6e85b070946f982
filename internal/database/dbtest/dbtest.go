// Package dbtest opens throwaway migrated sqlite databases for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"locallibrary/internal/config"
	"locallibrary/internal/database"
)

// New returns a fresh in-memory catalog database that is closed when t ends.
// Each call gets its own database.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	cfg := config.DefaultConfig().Database
	cfg.Driver = "sqlite"
	cfg.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())

	db, err := database.Open(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
