package auth

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/authstarter/go-auth-starter/internal/config"
	"github.com/authstarter/go-auth-starter/internal/db/models"
	"github.com/authstarter/go-auth-starter/internal/metrics"
	"github.com/authstarter/go-auth-starter/internal/role"
)

// Service provides authentication and authorization functionality.
type Service struct {
	Local    *LocalProvider
	Tokens   *TokenStore
	Resolver *role.Resolver
}

// NewService creates a new auth service.
func NewService(db *gorm.DB, registry *role.Registry, tokens config.Tokens) *Service {
	return &Service{
		Local:    NewLocalProvider(db, registry),
		Tokens:   NewTokenStore(db, tokens),
		Resolver: role.NewResolver(registry),
	}
}

// Registry returns the role registry.
func (s *Service) Registry() *role.Registry {
	return s.Resolver.Registry()
}

// Login verifies the credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.Local.Authenticate(ctx, email, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, "", err
	}

	token, err := s.Tokens.Issue(ctx, user)
	if err != nil {
		return nil, "", err
	}

	metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	log.Info().Uint64("user_id", user.ID).Msg("user logged in")

	return user, token, nil
}

// Register creates a User and issues its first token.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	user, err := s.Local.Register(ctx, name, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.Tokens.Issue(ctx, user)
	if err != nil {
		return nil, "", err
	}

	log.Info().Uint64("user_id", user.ID).Msg("user registered")

	return user, token, nil
}

// Logout revokes the token of the current request.
func (s *Service) Logout(ctx context.Context, token *models.PersonalAccessToken) error {
	return s.Tokens.Revoke(ctx, token.ID)
}

// Authenticate resolves a bearer token.
func (s *Service) Authenticate(ctx context.Context, plain string) (*models.User, *models.PersonalAccessToken, error) {
	return s.Tokens.Authenticate(ctx, plain)
}

// IsAdmin reports whether user holds the Admin role.
func (s *Service) IsAdmin(user *models.User) bool {
	return s.Resolver.IsAdmin(user)
}
