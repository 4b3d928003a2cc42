package store

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB connects to the database named by FASTADMIN_TEST_DSN. Tests
// that need a live database skip when it is unset or unreachable; the
// schema is expected to be migrated already.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("FASTADMIN_TEST_DSN")
	if dsn == "" {
		t.Skip("FASTADMIN_TEST_DSN not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("database not reachable: %v", err)
	}
	return db
}

var testSeq atomic.Int64

// uniqueName derives a collision-free identifier so tests can run against a
// shared database without pre-cleaning.
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, os.Getpid(), testSeq.Add(1))
}
