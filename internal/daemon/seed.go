package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/authstarter/go-auth-starter/internal/auth"
	"github.com/authstarter/go-auth-starter/internal/config"
	"github.com/authstarter/go-auth-starter/internal/db/models"
	"github.com/authstarter/go-auth-starter/internal/role"
)

// Seed creates the configured admin and user accounts. Accounts whose email
// already exists are left untouched, so seeding twice is harmless.
// It returns the number of created accounts.
func Seed(ctx context.Context, cfg *config.Config, db *gorm.DB) (int, error) {
	reg, err := cfg.RoleRegistry()
	if err != nil {
		return 0, err
	}

	accounts := []struct {
		name  string
		email string
		role  role.Role
	}{
		{name: "Admin", email: cfg.Seed.AdminEmail, role: role.Admin},
		{name: "User", email: cfg.Seed.UserEmail, role: role.User},
	}

	created := 0

	for _, a := range accounts {
		if a.email == "" {
			continue
		}

		ok, err := seedUser(ctx, db, a.name, a.email, cfg.Seed.Password, reg.Value(a.role))
		if err != nil {
			return created, err
		}

		if ok {
			created++

			log.Info().Str("email", a.email).Str("role", a.role.Name()).Msg("seeded user")
		}
	}

	return created, nil
}

func seedUser(ctx context.Context, db *gorm.DB, name, email, password string, value int) (bool, error) {
	email = auth.NormalizeEmail(email)

	var existing models.User

	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return false, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to query user %s: %w", email, err)
	}

	hash, err := models.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	u := models.User{Name: name, Email: email, Password: hash, Role: value}
	if err := db.WithContext(ctx).Create(&u).Error; err != nil {
		return false, fmt.Errorf("failed to create user %s: %w", email, err)
	}

	return true, nil
}
