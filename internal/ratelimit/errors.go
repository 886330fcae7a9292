package ratelimit

import "errors"

var (
	// ErrStorageUnsupported is returned when db storage is requested on an engine without a gofiber storage driver.
	ErrStorageUnsupported = errors.New("rate limit storage is not supported for this database engine")
	// ErrRedisAddrEmpty is returned when redis storage is configured without an address.
	ErrRedisAddrEmpty = errors.New("rate limit redis address is empty")
)
