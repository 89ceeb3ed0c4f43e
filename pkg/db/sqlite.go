package db

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// CreateSubmissionsTableSQL is the SQLite schema of the relational store.
const CreateSubmissionsTableSQL = `
CREATE TABLE IF NOT EXISTS submissions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    message TEXT NOT NULL,
    service TEXT,
    phone_number TEXT,
    timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
)`

const createIdentityIndexSQL = `CREATE INDEX IF NOT EXISTS idx_submissions_identity ON submissions (email, phone_number)`

// InitSQLiteStore creates the store file and its table when the file does not exist yet.
// An existing file is left untouched, whatever its schema: there are no migrations on this
// backend. It reports whether the store was created.
func InitSQLiteStore(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("failed to stat store %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	gdb, err := OpenSQLite(path)
	if err != nil {
		return false, err
	}
	defer CloseSQLite(gdb)

	if err := gdb.Exec(CreateSubmissionsTableSQL).Error; err != nil {
		return false, fmt.Errorf("failed to create submissions table: %w", err)
	}
	if err := gdb.Exec(createIdentityIndexSQL).Error; err != nil {
		return false, fmt.Errorf("failed to create identity index: %w", err)
	}
	return true, nil
}

// OpenSQLite opens the store file through gorm. Writers wait on the file lock instead of
// failing with SQLITE_BUSY, and the pool is kept to one connection so writes serialise.
func OpenSQLite(path string) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(sqliteDSN(path)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return gdb, nil
}

// CloseSQLite releases the underlying database/sql pool.
func CloseSQLite(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)"
}
