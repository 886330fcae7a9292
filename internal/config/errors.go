package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownDBEngine error if db.engine is none of mysql, postgres or sqlite.
	ErrUnknownDBEngine = errors.New("toml config db.engine is unknown")

	// ErrUnknownLimiterStorage error if ratelimit.storage is none of memory, db or redis.
	ErrUnknownLimiterStorage = errors.New("toml config ratelimit.storage is unknown")

	// ErrNegativeTokenExpiration error if tokens.expiration is below 0.
	ErrNegativeTokenExpiration = errors.New("toml config tokens.expiration can not be negative")
)
