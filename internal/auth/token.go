package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/authstarter/go-auth-starter/internal/config"
	"github.com/authstarter/go-auth-starter/internal/db/models"
	"github.com/authstarter/go-auth-starter/internal/metrics"
	"github.com/authstarter/go-auth-starter/internal/uniuri"
)

// tokenSeparator splits the record id from the secret in a plaintext token.
const tokenSeparator = "|"

// TokenStore issues and verifies personal access tokens.
type TokenStore struct {
	db   *gorm.DB
	name string
	ttl  time.Duration
	now  func() time.Time
}

// NewTokenStore creates a token store. A zero expiration issues tokens that never expire.
func NewTokenStore(db *gorm.DB, cfg config.Tokens) *TokenStore {
	name := cfg.Name
	if name == "" {
		name = config.DefaultTokenName
	}

	return &TokenStore{
		db:   db,
		name: name,
		ttl:  cfg.ExpiresIn(),
		now:  time.Now,
	}
}

// HashToken returns the hex SHA-256 of a token secret, the form it is stored in.
func HashToken(secret string) string {
	sum := sha256.Sum256([]byte(secret))

	return hex.EncodeToString(sum[:])
}

// Issue creates a token for user and returns its plaintext, which is not recoverable later.
func (s *TokenStore) Issue(ctx context.Context, user *models.User) (string, error) {
	return s.issue(s.db.WithContext(ctx), user)
}

func (s *TokenStore) issue(tx *gorm.DB, user *models.User) (string, error) {
	secret, err := uniuri.NewToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	token := models.PersonalAccessToken{
		UserID: user.ID,
		Name:   s.name,
		Token:  HashToken(secret),
	}

	if s.ttl > 0 {
		expires := s.now().Add(s.ttl)
		token.ExpiresAt = &expires
	}

	if err := tx.Create(&token).Error; err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	metrics.TokensIssuedTotal.Inc()

	return strconv.FormatUint(token.ID, 10) + tokenSeparator + secret, nil
}

// Authenticate resolves a plaintext token to its user and stored token.
// Tokens without an id prefix are looked up by their hash alone.
func (s *TokenStore) Authenticate(ctx context.Context, plain string) (*models.User, *models.PersonalAccessToken, error) {
	var (
		token models.PersonalAccessToken
		db    = s.db.WithContext(ctx)
		err   error
	)

	idPart, secret, hasID := strings.Cut(plain, tokenSeparator)
	if !hasID {
		secret = plain
	}

	if secret == "" {
		return nil, nil, ErrInvalidToken
	}

	hash := HashToken(secret)

	if hasID {
		id, errParse := strconv.ParseUint(idPart, 10, 64)
		if errParse != nil {
			return nil, nil, ErrInvalidToken
		}

		err = db.First(&token, id).Error
	} else {
		err = db.Where("token = ?", hash).First(&token).Error
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrInvalidToken
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to query token: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(token.Token), []byte(hash)) != 1 {
		return nil, nil, ErrInvalidToken
	}

	now := s.now()
	if token.Expired(now) {
		return nil, nil, ErrTokenExpired
	}

	var user models.User

	err = db.First(&user, token.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrInvalidToken
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to query token owner: %w", err)
	}

	if err = db.Model(&token).Update("last_used_at", now).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to touch token: %w", err)
	}

	return &user, &token, nil
}

// Revoke deletes a single token.
func (s *TokenStore) Revoke(ctx context.Context, tokenID uint64) error {
	if err := s.db.WithContext(ctx).Delete(&models.PersonalAccessToken{}, tokenID).Error; err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

// RevokeOthers deletes every token of a user except keepID. A keepID of 0
// revokes them all.
func (s *TokenStore) RevokeOthers(ctx context.Context, userID, keepID uint64) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND id <> ?", userID, keepID).
		Delete(&models.PersonalAccessToken{}).Error
	if err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}

	return nil
}

// Refresh revokes current and issues a replacement in one transaction.
func (s *TokenStore) Refresh(ctx context.Context, user *models.User, current *models.PersonalAccessToken) (string, error) {
	var plain string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.PersonalAccessToken{}, current.ID)
		if res.Error != nil {
			return fmt.Errorf("failed to revoke token: %w", res.Error)
		}

		// a concurrent refresh or logout got there first
		if res.RowsAffected == 0 {
			return ErrInvalidToken
		}

		var err error

		plain, err = s.issue(tx, user)

		return err
	})
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	return plain, nil
}
