// Package daemon wires database, limiter storage and web service together.
package daemon

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/authstarter/go-auth-starter/internal/config"
	"github.com/authstarter/go-auth-starter/internal/ratelimit"
	"github.com/authstarter/go-auth-starter/internal/web"
)

// ErrNilConfig is returned by New without a config.
var ErrNilConfig = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	db             *gorm.DB
	limiterStorage fiber.Storage
	webService     *web.Service
}

// Start runs the web service until a shutdown signal arrives.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	err := d.webService.Start()

	d.close()

	return err
}

func (d *Daemon) close() {
	if d.limiterStorage != nil {
		if err := d.limiterStorage.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close rate limit storage")
		}
	}

	if sqlDB, err := d.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}
}

// New creates a new Daemon instance with the provided configuration.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	storage, err := ratelimit.NewStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	webService, err := web.New(cfg, db, storage)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("engine", cfg.DB.Engine).
		Str("roles", registryString(cfg)).
		Int("port", cfg.Webserver.Port).
		Msg("daemon ready")

	return &Daemon{
		db:             db,
		limiterStorage: storage,
		webService:     webService,
	}, nil
}

func registryString(cfg *config.Config) string {
	reg, err := cfg.RoleRegistry()
	if err != nil {
		return err.Error()
	}

	return reg.String()
}
