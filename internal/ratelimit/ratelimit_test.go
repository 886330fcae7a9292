package ratelimit

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authstarter/go-auth-starter/internal/config"
)

func newApp(cfg config.RateLimit) *fiber.App {
	app := fiber.New()
	handlers := append(Login(cfg, nil), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Post("/login", handlers...)

	return app
}

func login(t *testing.T, app *fiber.App, email string) int {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodPost, "/login", strings.NewReader(`{"email":"`+email+`"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	if resp.StatusCode == fiber.StatusTooManyRequests {
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"success":false`)
	}

	return resp.StatusCode
}

func TestLogin_Throttles(t *testing.T) {
	app := newApp(config.RateLimit{Enabled: true, Max: 2, Expiration: time.Minute})

	assert.Equal(t, fiber.StatusOK, login(t, app, "a@example.com"))
	assert.Equal(t, fiber.StatusOK, login(t, app, "A@Example.com"))
	assert.Equal(t, fiber.StatusTooManyRequests, login(t, app, "a@example.com"))

	// another account from the same address has its own counter
	assert.Equal(t, fiber.StatusOK, login(t, app, "b@example.com"))
}

func TestLogin_ThrottlesAddressOverEmails(t *testing.T) {
	app := newApp(config.RateLimit{Enabled: true, Max: 2, AddressMax: 3, Expiration: time.Minute})

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		assert.Equal(t, fiber.StatusOK, login(t, app, email), email)
	}

	// every account is fresh, the address is not
	assert.Equal(t, fiber.StatusTooManyRequests, login(t, app, "d@example.com"))
}

func TestLogin_AddressLimitOff(t *testing.T) {
	app := newApp(config.RateLimit{Enabled: true, Max: 1, Expiration: time.Minute})

	for i := range 10 {
		assert.Equal(t, fiber.StatusOK, login(t, app, fmt.Sprintf("user%d@example.com", i)))
	}
}

func TestLogin_Disabled(t *testing.T) {
	app := newApp(config.RateLimit{Enabled: false, Max: 1, Expiration: time.Minute})

	for range 5 {
		assert.Equal(t, fiber.StatusOK, login(t, app, "a@example.com"))
	}
}

func TestNewStorage(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.RateLimit.Storage = config.LimiterStorageMemory

	s, err := NewStorage(ctx, cfg)
	require.NoError(t, err)
	assert.Nil(t, s)

	cfg.RateLimit.Storage = config.LimiterStorageDB
	cfg.DB.Engine = config.EngineSQLite

	_, err = NewStorage(ctx, cfg)
	require.ErrorIs(t, err, ErrStorageUnsupported)

	cfg.RateLimit.Storage = config.LimiterStorageRedis

	_, err = NewStorage(ctx, cfg)
	require.ErrorIs(t, err, ErrRedisAddrEmpty)
}

func TestNewRedisStorage_Unreachable(t *testing.T) {
	_, err := NewRedisStorage(context.Background(), RedisConfig{
		Addr:    "127.0.0.1:1",
		Timeout: 200 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}

func TestRedisStorage_Key(t *testing.T) {
	s := NewRedisStorageFromClient(nil, "rate_limits:", 0)

	assert.Equal(t, "rate_limits:login:x", s.key("login:x"))
	assert.Equal(t, defaultRedisTimeout, s.timeout)

	// empty keys never reach the client
	v, err := s.Get("")
	require.NoError(t, err)
	assert.Nil(t, v)
	require.NoError(t, s.Set("", []byte("1"), 0))
	require.NoError(t, s.Delete(""))
}

var _ fiber.Storage = (*RedisStorage)(nil)
