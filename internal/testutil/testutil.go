// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"io"
	"testing"
	"time"

	"lottery_service/internal/db"
	"lottery_service/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory SQLite database with the full schema.
// A single connection is used so transactions serialize the same way the
// sqlite driver is configured in production.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), db.NewGormConfig(logger.Silent))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

// CreateUser inserts a user row directly, bypassing registration.
func CreateUser(t *testing.T, gdb *gorm.DB, username string, isAdmin bool) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:             uuid.NewString(),
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "hashed",
		IsAdmin:        isAdmin,
		RegisteredAt:   time.Now().UTC(),
	}
	if err := gdb.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

// NewLogger returns a logrus logger that discards output.
func NewLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Tomorrow returns the calendar date after today as midnight UTC.
func Tomorrow() time.Time {
	return domain.DateOf(time.Now()).AddDate(0, 0, 1)
}
