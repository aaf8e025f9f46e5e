// Package dbtest opens a private in-memory SQLite database per test.
package dbtest

import (
	"testing"

	"orderdesk/configs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// New returns a migrated database that lives until the test ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	cfg := &configs.Config{
		DBDriver: "sqlite",
		DBSource: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}
	db, err := configs.ConnectionDB(cfg)
	require.NoError(t, err)
	require.NoError(t, configs.SetupDatabase(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
