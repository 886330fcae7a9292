package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/authstarter/go-auth-starter/internal/db/models"
	"github.com/authstarter/go-auth-starter/internal/role"
)

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db       *gorm.DB
	registry *role.Registry

	dummyOnce sync.Once
	dummyHash string
}

const (
	whereEmail = "email = ?"

	whereEmailNotID = "email = ? AND id <> ?"
)

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB, registry *role.Registry) *LocalProvider {
	return &LocalProvider{
		db:       db,
		registry: registry,
	}
}

// NormalizeEmail trims and lower cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with the User role. The role can't be chosen by the caller.
func (p *LocalProvider) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)

	taken, err := p.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, err
	}

	if taken {
		return nil, models.ErrEmailTaken
	}

	hashedPassword, err := models.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: hashedPassword,
		Role:     p.registry.Value(role.User),
	}

	if err := p.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// Authenticate verifies email and password. Every failure is ErrInvalidCredentials.
func (p *LocalProvider) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User

	err := p.db.WithContext(ctx).Where(whereEmail, NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// burn the same time as a real verification
		p.verifyDummy(password)

		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	if user.NeedsRehash() {
		p.rehash(ctx, &user, password)
	}

	return &user, nil
}

// UpdateProfile sets name and email. The email must not belong to another user.
func (p *LocalProvider) UpdateProfile(ctx context.Context, user *models.User, name, email string) error {
	email = NormalizeEmail(email)

	taken, err := p.EmailTaken(ctx, email, user.ID)
	if err != nil {
		return err
	}

	if taken {
		return models.ErrEmailTaken
	}

	updates := map[string]any{
		"name":  strings.TrimSpace(name),
		"email": email,
	}

	if err := p.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	user.Name = updates["name"].(string)
	user.Email = email

	return nil
}

// ChangePassword replaces the password after checking the current one.
func (p *LocalProvider) ChangePassword(ctx context.Context, user *models.User, currentPassword, newPassword string) error {
	if !user.VerifyPassword(currentPassword) {
		return ErrInvalidCurrentPassword
	}

	hashedPassword, err := models.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := p.db.WithContext(ctx).Model(user).Update("password", hashedPassword).Error; err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	user.Password = hashedPassword

	return nil
}

// GetUserByID retrieves a user by ID.
func (p *LocalProvider) GetUserByID(ctx context.Context, userID uint64) (*models.User, error) {
	var user models.User

	err := p.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// EmailTaken reports whether a user other than exceptID owns email.
func (p *LocalProvider) EmailTaken(ctx context.Context, email string, exceptID uint64) (bool, error) {
	var count int64

	err := p.db.WithContext(ctx).Model(&models.User{}).
		Where(whereEmailNotID, NormalizeEmail(email), exceptID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}

	return count > 0, nil
}

func (p *LocalProvider) rehash(ctx context.Context, user *models.User, password string) {
	hashedPassword, err := models.HashPassword(password)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to rehash legacy password")
		return
	}

	if err := p.db.WithContext(ctx).Model(user).Update("password", hashedPassword).Error; err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to store rehashed password")
		return
	}

	user.Password = hashedPassword

	log.Info().Uint64("user_id", user.ID).Msg("legacy password hash upgraded to argon2id")
}

func (p *LocalProvider) verifyDummy(password string) {
	p.dummyOnce.Do(func() {
		hash, err := models.HashPassword("dummy password for unknown users")
		if err != nil {
			log.Error().Err(err).Msg("failed to create dummy hash")
			return
		}

		p.dummyHash = hash
	})

	if p.dummyHash == "" {
		return
	}

	dummy := models.User{Password: p.dummyHash}
	_ = dummy.VerifyPassword(password)
}
