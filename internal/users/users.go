// Package users implements the admin side of user management: listing,
// search, create, update, delete and role changes.
//
// The service trusts its caller to have checked that the acting user is an
// admin. It still validates every role value against the registry before
// writing.
package users

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/authstarter/go-auth-starter/internal/auth"
	"github.com/authstarter/go-auth-starter/internal/db/models"
	"github.com/authstarter/go-auth-starter/internal/metrics"
	"github.com/authstarter/go-auth-starter/internal/role"
)

const (
	// ListPageSize is the page size of List.
	ListPageSize = 10

	// SearchPageSize is the page size of Search.
	SearchPageSize = 20
)

// Page is one page of users, newest first.
type Page struct {
	Items    []models.User
	Page     int
	PerPage  int
	Total    int64
	LastPage int
}

// CreateInput holds the fields of a new user.
type CreateInput struct {
	Name     string
	Email    string
	Password string
	Role     int
}

// UpdateInput holds the fields of an update. A nil Password keeps the current one.
type UpdateInput struct {
	Name     string
	Email    string
	Password *string
}

// Service manages users on behalf of admins.
type Service struct {
	db       *gorm.DB
	registry *role.Registry
}

// NewService creates a user service.
func NewService(db *gorm.DB, registry *role.Registry) *Service {
	return &Service{db: db, registry: registry}
}

// List returns a page of all users.
func (s *Service) List(ctx context.Context, page int) (*Page, error) {
	return s.paginate(s.db.WithContext(ctx).Model(&models.User{}), page, ListPageSize)
}

// Search returns a page of users whose name contains query, case-insensitively.
func (s *Service) Search(ctx context.Context, query string, page int) (*Page, error) {
	like := "%" + escapeLike(strings.ToLower(strings.TrimSpace(query))) + "%"
	tx := s.db.WithContext(ctx).Model(&models.User{}).Where("LOWER(name) LIKE ? ESCAPE '!'", like)

	return s.paginate(tx, page, SearchPageSize)
}

func (s *Service) paginate(tx *gorm.DB, page, perPage int) (*Page, error) {
	var (
		out   = Page{Page: page, PerPage: perPage, Items: []models.User{}}
		total int64
	)

	if out.Page < 1 {
		out.Page = 1
	}

	// count and find must not share statement state
	tx = tx.Session(&gorm.Session{})

	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	out.Total = total
	out.LastPage = max(int((total+int64(perPage)-1)/int64(perPage)), 1)

	// pages past the end show the last one
	out.Page = min(out.Page, out.LastPage)

	offset := (out.Page - 1) * perPage
	if err := tx.Order("created_at DESC").Order("id DESC").Limit(perPage).Offset(offset).Find(&out.Items).Error; err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	return &out, nil
}

// Get returns one user.
func (s *Service) Get(ctx context.Context, id uint64) (*models.User, error) {
	return s.get(s.db.WithContext(ctx), id)
}

func (s *Service) get(tx *gorm.DB, id uint64) (*models.User, error) {
	var user models.User

	err := tx.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// Create adds a user with an explicit role.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.User, error) {
	if !s.registry.Contains(in.Role) {
		return nil, fmt.Errorf("%w: %d", role.ErrInvalidRole, in.Role)
	}

	email := auth.NormalizeEmail(in.Email)
	if err := s.checkEmail(ctx, email, 0); err != nil {
		return nil, err
	}

	hash, err := models.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: hash,
		Role:     in.Role,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Uint64("user_id", user.ID).Str("role", s.registry.Label(user.Role)).Msg("user created")

	return &user, nil
}

// Update changes name, email and optionally the password. The role is left alone, see ChangeRole.
func (s *Service) Update(ctx context.Context, id uint64, in UpdateInput) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	email := auth.NormalizeEmail(in.Email)
	if err := s.checkEmail(ctx, email, id); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"name":  strings.TrimSpace(in.Name),
		"email": email,
	}

	if in.Password != nil {
		hash, errHash := models.HashPassword(*in.Password)
		if errHash != nil {
			return nil, fmt.Errorf("failed to hash password: %w", errHash)
		}

		updates["password"] = hash
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.Get(ctx, id)
}

// ChangeRole sets the stored role of a user. The value must be one of the
// registry's values, otherwise role.ErrInvalidRole is returned and nothing
// is written. Concurrent changes are last-write-wins.
func (s *Service) ChangeRole(ctx context.Context, id uint64, value int) (*models.User, error) {
	if !s.registry.Contains(value) {
		return nil, fmt.Errorf("%w: %d", role.ErrInvalidRole, value)
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := user.Role

	if err := s.db.WithContext(ctx).Model(user).Update("role", value).Error; err != nil {
		return nil, fmt.Errorf("failed to change role: %w", err)
	}

	user.Role = value

	name, _ := s.registry.Name(value)
	metrics.RoleChangesTotal.WithLabelValues(name).Inc()
	log.Info().Uint64("user_id", id).Int("from", previous).Int("to", value).Msg("role changed")

	return user, nil
}

// Delete removes one user and their tokens. actorID is the acting admin.
func (s *Service) Delete(ctx context.Context, actorID, id uint64) error {
	if actorID == id {
		return ErrSelfDelete
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.get(tx, id); err != nil {
			return err
		}

		return deleteUsers(tx, []uint64{id})
	})
}

// DeleteMany removes every listed user or none: if one id doesn't exist a
// *MissingError naming the missing ids is returned and nothing is deleted.
// Duplicate ids count once. actorID is the acting admin and may not be listed.
func (s *Service) DeleteMany(ctx context.Context, actorID uint64, ids []uint64) (int64, error) {
	ids = dedupe(ids)

	if len(ids) == 0 {
		return 0, ErrNoIDs
	}

	if slices.Contains(ids, actorID) {
		return 0, ErrSelfDelete
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found []uint64
		if err := tx.Model(&models.User{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
			return fmt.Errorf("failed to query users: %w", err)
		}

		if missing := difference(ids, found); len(missing) > 0 {
			return &MissingError{IDs: missing}
		}

		return deleteUsers(tx, ids)
	})
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	log.Info().Uints64("user_ids", ids).Msg("users deleted")

	return int64(len(ids)), nil
}

func deleteUsers(tx *gorm.DB, ids []uint64) error {
	if err := tx.Where("user_id IN ?", ids).Delete(&models.PersonalAccessToken{}).Error; err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}

	if err := tx.Where("id IN ?", ids).Delete(&models.User{}).Error; err != nil {
		return fmt.Errorf("failed to delete users: %w", err)
	}

	return nil
}

func (s *Service) checkEmail(ctx context.Context, email string, exceptID uint64) error {
	var count int64

	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}

	if count > 0 {
		return models.ErrEmailTaken
	}

	return nil
}

func dedupe(ids []uint64) []uint64 {
	out := slices.Clone(ids)
	slices.Sort(out)

	return slices.Compact(out)
}

// difference returns the ids of want missing in have, in order.
func difference(want, have []uint64) []uint64 {
	var out []uint64

	for _, id := range want {
		if !slices.Contains(have, id) {
			out = append(out, id)
		}
	}

	return out
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
