// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/authstarter/go-auth-starter/internal/db/models"
)

// New returns a migrated private in-memory sqlite database.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite in-memory db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}

	// every new connection would get its own empty database
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := models.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

// CreateUser inserts a user with an argon2id hash of password.
func CreateUser(t *testing.T, db *gorm.DB, name, email, password string, roleValue int) *models.User {
	t.Helper()

	hash, err := models.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	u := &models.User{Name: name, Email: email, Password: hash, Role: roleValue}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}

	return u
}
