package models

import "gorm.io/gorm"

// Migrate creates or updates the tables of all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate( //nolint:wrapcheck
		&User{},
		&PersonalAccessToken{},
	)
}
