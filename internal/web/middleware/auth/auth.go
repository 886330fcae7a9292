package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/authstarter/go-auth-starter/internal/auth"
)

const bearerPrefix = "bearer "

// Middleware resolves the bearer token of a request and attaches its user.
// Requests without a valid token pass through unauthenticated, the route
// guards decide whether that is acceptable.
func Middleware(authService *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		plain, ok := BearerToken(c)
		if !ok {
			return c.Next()
		}

		user, token, err := authService.Authenticate(c.UserContext(), plain)

		switch {
		case err == nil:
			auth.SetPrincipal(c, user, token)
		case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenExpired):
			log.Debug().Err(err).Str("path", c.Path()).Msg("bearer token rejected")
		default:
			return err
		}

		return c.Next()
	}
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(c *fiber.Ctx) (string, bool) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(bearerPrefix):])

	return token, token != ""
}
