package daemon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authstarter/go-auth-starter/internal/config"
	"github.com/authstarter/go-auth-starter/internal/db/models"
	"github.com/authstarter/go-auth-starter/internal/role"
)

func sqliteConfig() *config.Config {
	return &config.Config{
		Title: "test",
		DB:    config.DB{Engine: config.EngineSQLite},
		Webserver: config.Webserver{
			Port:          8080,
			URL:           "http://localhost:8080",
			CheckAliveURI: "/health",
		},
		Routes: config.Routes{APIPrefix: "/api", AuthPrefix: "/auth", AdminPrefix: "/admin"},
		Roles:  role.DefaultMapping(),
		Seed: config.Seed{
			AdminEmail: "Admin@Example.com",
			UserEmail:  "user@example.com",
			Password:   "password",
		},
		RateLimit: config.RateLimit{Storage: config.LimiterStorageMemory},
	}
}

func TestOpenDB_UnknownEngine(t *testing.T) {
	cfg := sqliteConfig()
	cfg.DB.Engine = "oracle"

	_, err := OpenDB(cfg)
	require.ErrorIs(t, err, config.ErrUnknownDBEngine)
}

func TestSeed(t *testing.T) {
	cfg := sqliteConfig()

	db, err := OpenDB(cfg)
	require.NoError(t, err)

	ctx := context.Background()

	n, err := Seed(ctx, cfg, db)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = Seed(ctx, cfg, db)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "seeding twice creates nothing")

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@example.com").First(&admin).Error)
	assert.Equal(t, 1, admin.Role)
	assert.True(t, admin.VerifyPassword("password"))

	var user models.User
	require.NoError(t, db.Where("email = ?", "user@example.com").First(&user).Error)
	assert.Equal(t, 2, user.Role)
}

func TestSeed_RemappedRoles(t *testing.T) {
	cfg := sqliteConfig()
	cfg.Roles = map[string]int{"admin": 10, "user": 20}
	cfg.Seed.UserEmail = ""

	db, err := OpenDB(cfg)
	require.NoError(t, err)

	n, err := Seed(context.Background(), cfg, db)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var admin models.User
	require.NoError(t, db.First(&admin).Error)
	assert.Equal(t, 10, admin.Role)
}

func TestNew(t *testing.T) {
	_, err := New(context.Background(), nil)
	require.ErrorIs(t, err, ErrNilConfig)

	d, err := New(context.Background(), sqliteConfig())
	require.NoError(t, err)
	require.NotNil(t, d.webService)
	assert.Nil(t, d.limiterStorage)

	d.close()
}
