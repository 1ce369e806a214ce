package database

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open opens the SQLite database at dsn and returns the handle. The caller
// owns the lifecycle: open once at startup, inject everywhere, close at
// shutdown. There is deliberately no package-level handle.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}
