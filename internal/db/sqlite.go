package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewSQLite opens a sqlite database at path ("file::memory:?cache=shared" for
// an in-memory database), migrates the schema and seeds the catalog. Tests
// use this so the full repo stack runs without a postgres instance.
func NewSQLite(path string) (*gorm.DB, error) {
	gormDB, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := gormDB.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}
	if err := Migrate(gormDB); err != nil {
		return nil, fmt.Errorf("sqlite migration failed: %w", err)
	}
	return gormDB, nil
}
