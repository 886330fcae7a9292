package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/authstarter/go-auth-starter/internal/web/response"
)

// RequireFeature answers 403 with msg while enabled reports false.
// The route stays registered so clients can tell a disabled feature from a
// missing one.
func RequireFeature(enabled func() bool, msg string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !enabled() {
			return response.Fail(c, response.KindFeatureDisabled, msg, nil)
		}

		return c.Next()
	}
}
