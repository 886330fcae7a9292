package auth

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authstarter/go-auth-starter/internal/auth"
	"github.com/authstarter/go-auth-starter/internal/config"
	"github.com/authstarter/go-auth-starter/internal/db/dbtest"
	"github.com/authstarter/go-auth-starter/internal/role"
)

func TestMiddleware(t *testing.T) {
	db := dbtest.New(t)
	svc := auth.NewService(db, role.Default(), config.Tokens{})

	jane := dbtest.CreateUser(t, db, "Jane", "jane@example.com", "password", 2)

	token, err := svc.Tokens.Issue(context.Background(), jane)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(Middleware(svc))
	app.Get("/", func(c *fiber.Ctx) error {
		if u, ok := auth.UserFromContext(c); ok {
			return c.SendString(u.Email)
		}

		return c.SendString("guest")
	})

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "no header", want: "guest"},
		{name: "valid", header: "Bearer " + token, want: "jane@example.com"},
		{name: "scheme is case insensitive", header: "bearer " + token, want: "jane@example.com"},
		{name: "wrong scheme", header: "Basic " + token, want: "guest"},
		{name: "empty token", header: "Bearer ", want: "guest"},
		{name: "unknown token", header: "Bearer 99|nope", want: "guest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(body))
		})
	}
}
