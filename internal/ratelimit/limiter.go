package ratelimit

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/rs/zerolog/log"

	"github.com/authstarter/go-auth-starter/internal/config"
	"github.com/authstarter/go-auth-starter/internal/metrics"
	"github.com/authstarter/go-auth-starter/internal/web/response"
)

// Key prefixes of the two login limiters.
const (
	KeyPrefix        = "login:"
	AddressKeyPrefix = "login-address:"
)

// Login returns the login throttles: one counter per client address over
// every email, when AddressMax is set, and one per email and address. When
// rate limiting is disabled it is a single pass-through handler.
func Login(cfg config.RateLimit, storage fiber.Storage) []fiber.Handler {
	if !cfg.Enabled {
		return []fiber.Handler{func(c *fiber.Ctx) error { return c.Next() }}
	}

	handlers := make([]fiber.Handler, 0, 2) //nolint:mnd

	if cfg.AddressMax > 0 {
		handlers = append(handlers, limiter.New(limiter.Config{
			Max:          cfg.AddressMax,
			Expiration:   cfg.Expiration,
			KeyGenerator: AddressKey,
			LimitReached: limitReached,
			Storage:      storage,
		}))
	}

	return append(handlers, limiter.New(limiter.Config{
		Max:          cfg.Max,
		Expiration:   cfg.Expiration,
		KeyGenerator: Key,
		LimitReached: limitReached,
		Storage:      storage,
	}))
}

// Key is the submitted email, lowercased, plus the client address.
func Key(c *fiber.Ctx) string {
	var body struct {
		Email string `json:"email"`
	}

	// a body that doesn't parse is keyed on the address alone
	_ = c.BodyParser(&body)

	return KeyPrefix + strings.ToLower(strings.TrimSpace(body.Email)) + "|" + c.IP()
}

// AddressKey is the client address alone.
func AddressKey(c *fiber.Ctx) string {
	return AddressKeyPrefix + c.IP()
}

func limitReached(c *fiber.Ctx) error {
	metrics.LoginsTotal.WithLabelValues(metrics.ResultLimited).Inc()

	log.Warn().
		Str("ip", c.IP()).
		Str("path", c.Path()).
		Msg("login rate limit reached")

	return response.Fail(c, response.KindTooManyRequests, response.MsgTooManyRequests, nil)
}
