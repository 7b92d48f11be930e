// Package dbtest provides a migrated in-memory database for tests.
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/config"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db"
)

// New opens a fresh in-memory sqlite database with foreign keys enforced and
// the full schema migrated. The database is closed when the test ends.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(&config.Config{
		DB: config.DB{GormEngine: "sqlite"},
	})
	require.NoError(t, err)

	// silence statement logging in tests
	gdb.Logger = gdb.Logger.LogMode(gormlogger.Silent)

	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return gdb
}
