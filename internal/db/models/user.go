package models

import (
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// User represents an account that can authenticate and carries exactly one role.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Name is the display name.
	Name string `gorm:"size:255;not null"`
	// Email is the unique login identifier.
	Email string `gorm:"uniqueIndex;size:255;not null"`
	// Password is the Argon2id PHC string, or a bcrypt hash imported from an older system.
	Password string `gorm:"size:255;not null"`
	// Role is the stored role value, always one of the role registry's values.
	Role int `gorm:"not null;index"`
	// Tokens are the personal access tokens issued to the user.
	Tokens []PersonalAccessToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// RoleValue returns the stored role value.
func (u *User) RoleValue() int {
	return u.Role
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword checks password against the stored hash in constant time.
// Legacy bcrypt hashes are accepted, see NeedsRehash.
func (u *User) VerifyPassword(password string) bool {
	if isBcrypt(u.Password) {
		return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
	}

	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}

// NeedsRehash reports whether the stored hash should be replaced by an Argon2id hash.
func (u *User) NeedsRehash() bool {
	return isBcrypt(u.Password)
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}
