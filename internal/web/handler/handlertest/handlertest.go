// Package handlertest builds fiber apps with real services on an in-memory
// database for handler tests.
package handlertest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/authstarter/go-auth-starter/internal/auth"
	"github.com/authstarter/go-auth-starter/internal/config"
	"github.com/authstarter/go-auth-starter/internal/db/dbtest"
	"github.com/authstarter/go-auth-starter/internal/db/models"
	"github.com/authstarter/go-auth-starter/internal/role"
	"github.com/authstarter/go-auth-starter/internal/users"
	"github.com/authstarter/go-auth-starter/internal/web/errorhandler"
	"github.com/authstarter/go-auth-starter/internal/web/handler"
	authmw "github.com/authstarter/go-auth-starter/internal/web/middleware/auth"
)

// Password is the password of every user created by CreateUser.
const Password = "Secret-pass1"

// Env is a test app and its collaborators.
type Env struct {
	App  *fiber.App
	DB   *gorm.DB
	Deps *handler.Deps
}

// Config returns a config with every feature enabled and no rate limit.
func Config() *config.Config {
	return &config.Config{
		Roles: role.DefaultMapping(),
		Features: config.Features{
			Registration:      true,
			ProfileManagement: true,
			RoleManagement:    true,
		},
		Tokens: config.Tokens{
			Name:           config.DefaultTokenName,
			RefreshEnabled: true,
		},
	}
}

// New builds an app with the bearer middleware and the API error handler.
// Routes are registered by the caller on Env.App.
func New(t *testing.T, cfg *config.Config) *Env {
	t.Helper()

	if cfg == nil {
		cfg = Config()
	}

	reg, err := role.NewRegistry(cfg.Roles)
	if err != nil {
		t.Fatalf("invalid role mapping: %v", err)
	}

	db := dbtest.New(t)
	authService := auth.NewService(db, reg, cfg.Tokens)

	app := fiber.New(fiber.Config{ErrorHandler: errorhandler.Handle})
	app.Use(authmw.Middleware(authService))

	return &Env{
		App: app,
		DB:  db,
		Deps: &handler.Deps{
			Config: cfg,
			DB:     db,
			Auth:   authService,
			Users:  users.NewService(db, reg),
		},
	}
}

// CreateUser inserts a user with Password.
func (e *Env) CreateUser(t *testing.T, name, email string, roleValue int) *models.User {
	t.Helper()

	return dbtest.CreateUser(t, e.DB, name, email, Password, roleValue)
}

// Token issues a bearer token for u.
func (e *Env) Token(t *testing.T, u *models.User) string {
	t.Helper()

	token, err := e.Deps.Auth.Tokens.Issue(context.Background(), u)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	return token
}

// Response is a decoded API response.
type Response struct {
	Status int
	Body   map[string]any
	Raw    string
}

// Data returns the data object of the envelope.
func (r Response) Data() map[string]any {
	d, _ := r.Body["data"].(map[string]any)

	return d
}

// Errors returns the errors object of the envelope.
func (r Response) Errors() map[string]any {
	d, _ := r.Body["errors"].(map[string]any)

	return d
}

// Message returns the message of the envelope.
func (r Response) Message() string {
	m, _ := r.Body["message"].(string)

	return m
}

// Do sends a request. A non-nil body is sent as JSON, a non-empty token as bearer.
func (e *Env) Do(t *testing.T, method, path string, body any, token string) Response {
	t.Helper()

	var reader io.Reader

	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			if err != nil {
				t.Fatalf("failed to encode body: %v", err)
			}

			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := e.App.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	out := Response{Status: resp.StatusCode, Raw: string(raw)}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out.Body); err != nil {
			t.Fatalf("response is not JSON: %q", raw)
		}
	}

	return out
}
