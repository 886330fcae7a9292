package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/authstarter/go-auth-starter/internal/auth"
	"github.com/authstarter/go-auth-starter/internal/config"
	"github.com/authstarter/go-auth-starter/internal/users"
)

// Deps are the collaborators handed to every handler service.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Auth   *auth.Service
	Users  *users.Service

	// LimiterStorage keeps login throttle counters, nil for in-memory.
	LimiterStorage fiber.Storage
}

// Valid reports whether the mandatory collaborators are set.
func (d *Deps) Valid() bool {
	return d != nil && d.Config != nil && d.DB != nil && d.Auth != nil && d.Users != nil
}

// Service is the interface for a web handler service.
type Service interface {
	Init(router fiber.Router, deps *Deps) error
}
