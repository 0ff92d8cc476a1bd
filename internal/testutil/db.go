// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"testing"

	"devcamper/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB returns a fresh in-memory database with the full schema.
// Foreign keys are not enforced.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()
	return openSQLite(t, "file::memory:")
}

// NewSQLiteDBWithForeignKeys is NewSQLiteDB with foreign key enforcement on,
// matching the constraint behavior of Postgres.
func NewSQLiteDBWithForeignKeys(t testing.TB) *gorm.DB {
	t.Helper()
	return openSQLite(t, "file::memory:?_foreign_keys=on")
}

func openSQLite(t testing.TB, dsn string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}
