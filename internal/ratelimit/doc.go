// Package ratelimit throttles login attempts. Counters live in memory, in the
// application database through the gofiber storage drivers, or in redis.
package ratelimit
