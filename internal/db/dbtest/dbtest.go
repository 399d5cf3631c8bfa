// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"blood_bank/internal/config"
	"blood_bank/internal/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated in-memory SQLite database private to t.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	}
	gdb, err := db.Open(cfg)
	require.NoError(t, err)
	gdb.Logger = logger.Default.LogMode(logger.Silent)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, db.Migrate(gdb))
	return gdb
}
