package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/authstarter/go-auth-starter/internal/db/models"
	"github.com/authstarter/go-auth-starter/internal/metrics"
	"github.com/authstarter/go-auth-starter/internal/role"
	"github.com/authstarter/go-auth-starter/internal/web/response"
)

// fiber.Locals keys of the authenticated request.
const (
	LocalsUser  = "auth.user"
	LocalsToken = "auth.token"
)

// SetPrincipal attaches the authenticated user and the token used to the request.
func SetPrincipal(c *fiber.Ctx, user *models.User, token *models.PersonalAccessToken) {
	c.Locals(LocalsUser, user)
	c.Locals(LocalsToken, token)
}

// UserFromContext returns the authenticated user of the request.
func UserFromContext(c *fiber.Ctx) (*models.User, bool) {
	u, ok := c.Locals(LocalsUser).(*models.User)

	return u, ok && u != nil
}

// TokenFromContext returns the token the request authenticated with.
func TokenFromContext(c *fiber.Ctx) (*models.PersonalAccessToken, bool) {
	t, ok := c.Locals(LocalsToken).(*models.PersonalAccessToken)

	return t, ok && t != nil
}

// RequireAuthenticated rejects requests without an authenticated user.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := UserFromContext(c); !ok {
			return response.Fail(c, response.KindAuthRequired, response.MsgUnauthenticated, nil)
		}

		return c.Next()
	}
}

// RequireRole lets requests through whose user holds at least one of roles.
// Role names are matched case-insensitively. A name the registry doesn't know
// fails every request with "Invalid role specified.", it is a route setup
// mistake and never widens access.
func RequireRole(resolver *role.Resolver, roles ...string) fiber.Handler {
	refs := role.Names(roles...)
	valid := len(resolver.Normalize(refs...)) == len(refs)

	if !valid {
		log.Error().Strs("roles", roles).Msg("route requires an unknown role, every request will be rejected")
	}

	return func(c *fiber.Ctx) error {
		user, ok := UserFromContext(c)
		if !ok {
			metrics.AccessDecisionsTotal.WithLabelValues(metrics.OutcomeUnauthenticated).Inc()

			return response.Fail(c, response.KindAuthRequired, response.MsgUnauthenticated, nil)
		}

		if !valid {
			metrics.AccessDecisionsTotal.WithLabelValues(metrics.OutcomeInvalidSpec).Inc()
			log.Warn().Uint64("user_id", user.ID).Strs("roles", roles).Str("path", c.Path()).
				Msg("invalid role specified")

			return response.Fail(c, response.KindInvalidRoleSpec, response.MsgInvalidRoleSpecified, nil)
		}

		if !resolver.HasAnyRole(user, refs...) {
			metrics.AccessDecisionsTotal.WithLabelValues(metrics.OutcomeForbidden).Inc()
			log.Warn().Uint64("user_id", user.ID).Strs("roles", roles).Str("path", c.Path()).
				Msg("user lacks required role")

			return response.Fail(c, response.KindForbidden, response.MsgInsufficientPermissions, nil)
		}

		metrics.AccessDecisionsTotal.WithLabelValues(metrics.OutcomeAllowed).Inc()

		return c.Next()
	}
}
