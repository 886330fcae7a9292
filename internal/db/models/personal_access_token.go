package models

import "time"

// PersonalAccessToken is the stored form of an opaque bearer token.
// Only the SHA-256 of the secret part is kept, the plaintext is shown once.
type PersonalAccessToken struct {
	ID         uint64 `gorm:"primaryKey"`
	UserID     uint64 `gorm:"not null;index"`
	Name       string `gorm:"size:255;not null"`
	Token      string `gorm:"size:64;uniqueIndex;not null"`
	LastUsedAt *time.Time
	ExpiresAt  *time.Time // nil never expires
	CreatedAt  time.Time
}

// TableName specifies the database table name for the PersonalAccessToken model.
func (PersonalAccessToken) TableName() string {
	return "personal_access_tokens"
}

// Expired reports whether the token is past its expiry at now.
func (t *PersonalAccessToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}
