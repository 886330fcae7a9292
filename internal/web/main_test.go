package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authstarter/go-auth-starter/internal/config"
	"github.com/authstarter/go-auth-starter/internal/db/dbtest"
	"github.com/authstarter/go-auth-starter/internal/db/models"
	"github.com/authstarter/go-auth-starter/internal/role"
	"github.com/authstarter/go-auth-starter/internal/web/navigation"
)

func testConfig() *config.Config {
	return &config.Config{
		Title: "Auth Starter",
		Webserver: config.Webserver{
			Port:          8080,
			URL:           "http://localhost:8080",
			CheckAliveURI: "/health",
		},
		Routes: config.Routes{
			APIPrefix:   "/api",
			AuthPrefix:  "/auth",
			AdminPrefix: "/admin",
		},
		Roles: role.DefaultMapping(),
		Features: config.Features{
			Registration:      true,
			ProfileManagement: true,
			RoleManagement:    true,
		},
		Tokens: config.Tokens{Name: config.DefaultTokenName, RefreshEnabled: true},
	}
}

func newService(t *testing.T) *Service {
	t.Helper()

	s, err := New(testConfig(), dbtest.New(t), nil)
	require.NoError(t, err)

	return s
}

func get(t *testing.T, s *Service, path string) (int, string, string) {
	t.Helper()

	resp, err := s.App.Test(httptest.NewRequest(fiber.MethodGet, path, nil), -1)
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, resp.Header.Get(fiber.HeaderContentType), string(body)
}

func TestNew_InvalidRoles(t *testing.T) {
	cfg := testConfig()
	cfg.Roles = map[string]int{"admin": 1, "user": 1}

	_, err := New(cfg, dbtest.New(t), nil)
	require.ErrorIs(t, err, role.ErrInvalidMapping)
}

func TestHealth(t *testing.T) {
	s := newService(t)

	status, _, body := get(t, s, "/health")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"status":"ok"`)
	assert.Contains(t, body, `"service":"Auth Starter"`)
	assert.Contains(t, body, `"timestamp"`)

	// ShutDownTime 0 drains without waiting
	s.Drain()
	assert.False(t, s.Alive())

	status, _, _ = get(t, s, "/health")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

func TestMetrics(t *testing.T) {
	s := newService(t)

	get(t, s, "/health")

	status, _, body := get(t, s, PathMetrics)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "authstarter_http_request_duration_seconds")
}

func TestNavigationManifest(t *testing.T) {
	s := newService(t)

	status, contentType, body := get(t, s, "/api"+PathNavigation)
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, strings.HasPrefix(contentType, fiber.MIMEApplicationJSON))
	assert.Contains(t, body, `"name":"auth.login"`)
	assert.Contains(t, body, `"unauthorized":"unauthorized"`)
	assert.Contains(t, body, `"admin":1`)
}

func resolve(t *testing.T, s *Service, path, token string) navigation.Resolution {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodGet, "/api"+PathNavigationResolve+"?path="+path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.App.Test(req, -1)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data navigation.Resolution `json:"data"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	return body.Data
}

func TestNavigationResolve(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	user, userToken, err := s.authService.Register(ctx, "Joe", "joe@example.com", "Secret-pass1")
	require.NoError(t, err)

	admin, adminToken, err := s.authService.Register(ctx, "Jane", "jane@example.com", "Secret-pass1")
	require.NoError(t, err)
	require.NoError(t, s.db.Model(admin).Update("role", s.authService.Registry().Value(role.Admin)).Error)

	got := resolve(t, s, "/admin/users", "")
	assert.False(t, got.Authenticated)
	assert.Equal(t, "/login", got.RedirectPath)

	got = resolve(t, s, "/admin/users", userToken)
	assert.True(t, got.Authenticated)
	assert.Equal(t, navigation.RouteUnauthorized, got.Redirect)
	assert.NotContains(t, got.Allowed, navigation.RouteAdminUsers)

	got = resolve(t, s, "/admin/users", adminToken)
	assert.True(t, got.Allow)
	assert.Contains(t, got.Allowed, navigation.RouteAdminUsers)

	got = resolve(t, s, "/login", adminToken)
	assert.Equal(t, "/admin/dashboard", got.RedirectPath)

	got = resolve(t, s, "/login", userToken)
	assert.Equal(t, "/dashboard", got.RedirectPath)

	// a stale token is treated as no token
	got = resolve(t, s, "/dashboard", "999|nope")
	assert.False(t, got.Authenticated)
	assert.Equal(t, "/login", got.RedirectPath)

	// a role value outside the registry matches no role guard
	require.NoError(t, s.db.Model(&models.User{}).Where("id = ?", user.ID).Update("role", 999).Error)

	got = resolve(t, s, "/admin/users", userToken)
	assert.True(t, got.Authenticated)
	assert.Equal(t, navigation.RouteUnauthorized, got.Redirect)
}

func TestUnknownAPIRoute(t *testing.T) {
	s := newService(t)

	status, contentType, body := get(t, s, "/api/nope")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.True(t, strings.HasPrefix(contentType, fiber.MIMEApplicationJSON))
	assert.Contains(t, body, `"success":false`)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newService(t)

	status, _, body := get(t, s, "/api/admin/users")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, body, `"message":"Unauthenticated."`)
}

func TestShell(t *testing.T) {
	s := newService(t)

	testCases := []struct {
		path   string
		layout string
		title  string
	}{
		{path: "/login", layout: "layout-auth", title: "Sign in | Auth Starter"},
		{path: "/register", layout: "layout-auth", title: "Register | Auth Starter"},
		{path: "/admin/users", layout: "layout-admin", title: "Users | Auth Starter"},
		{path: "/somewhere/else", layout: "layout-admin", title: "Dashboard | Auth Starter"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			status, contentType, body := get(t, s, tc.path)
			require.Equal(t, fiber.StatusOK, status, body)
			assert.True(t, strings.HasPrefix(contentType, fiber.MIMETextHTML))
			assert.Contains(t, body, tc.layout)
			assert.Contains(t, body, "<title>"+tc.title+"</title>")
			assert.Contains(t, body, "navigation-manifest")
		})
	}

	_, _, body := get(t, s, "/dashboard")
	assert.Contains(t, body, `class="brand" href="/dashboard"`)

	_, _, body = get(t, s, "/admin/users")
	assert.Contains(t, body, `class="brand" href="/admin/dashboard"`)
}

func TestStaticFiles(t *testing.T) {
	s := newService(t)

	status, _, body := get(t, s, "/static/app.js")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "navigation-manifest")
}

func TestRequestID(t *testing.T) {
	s := newService(t)

	resp, err := s.App.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(fiber.HeaderXRequestID), 36)
}
