package config

import (
	"time"

	"github.com/authstarter/go-auth-starter/internal/logger"
)

const (
	// DefaultTokenName is the name stored with every issued bearer token.
	DefaultTokenName = "auth-token"

	// LimiterStorageMemory keeps login rate limit counters in process.
	LimiterStorageMemory = "memory"
	// LimiterStorageDB keeps them in the configured mysql or postgres database.
	LimiterStorageDB = "db"
	// LimiterStorageRedis keeps them in redis.
	LimiterStorageRedis = "redis"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Routes    Routes
	Roles     map[string]int // canonical role name to stored value
	Features  Features
	Tokens    Tokens
	RateLimit RateLimit
	Seed      Seed
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool   // disable recover middleware
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown
	URL            string // base url for the webserver, also the allowed CORS origin
	CheckAliveURI  string // health endpoint, not written to the access log
}

// Routes holds the route group prefixes.
type Routes struct {
	APIPrefix   string
	AuthPrefix  string
	AdminPrefix string
}

// Features toggles optional endpoints. Disabled endpoints stay routed and answer 403.
type Features struct {
	Registration      bool
	ProfileManagement bool
	RoleManagement    bool
}

// Tokens configures issued bearer tokens.
type Tokens struct {
	Name           string
	Expiration     int // minutes, 0 = never
	RefreshEnabled bool
}

// ExpiresIn returns the token lifetime, 0 for tokens that never expire.
func (t Tokens) ExpiresIn() time.Duration {
	return time.Duration(t.Expiration) * time.Minute
}

// RateLimit configures login throttling.
type RateLimit struct {
	Enabled    bool
	Max        int // attempts per email and client address
	AddressMax int // attempts per client address over all emails, 0 = unlimited
	Expiration time.Duration
	Storage    string // memory, db or redis
	Table      string // table for db storage
	Redis      Redis
}

// Redis connection settings for the redis limiter storage.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Seed holds the accounts created by the seed command.
type Seed struct {
	AdminEmail string
	UserEmail  string
	Password   string
}
