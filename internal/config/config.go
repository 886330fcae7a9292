// Package config handles input from etc/*.toml files, .env files and the environment.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/authstarter/go-auth-starter/internal/role"
)

const (
	// EnvPrefix prefixes every environment override, e.g. AUTH_STARTER_WEBSERVER_PORT.
	EnvPrefix = "AUTH_STARTER"

	// EnvConfigJSON holds a JSON document merged over the file configuration.
	EnvConfigJSON = EnvPrefix + "_CONFIG_JSON"

	// DefaultPath is used if ReadConfig gets an empty path.
	DefaultPath = "./etc/"

	mainConfigName = "main"
)

// ReadConfig from config file.
// Precedence, lowest first: defaults, etc/main.toml, .env, AUTH_STARTER_* env, AUTH_STARTER_CONFIG_JSON.
func ReadConfig(path string) (Config, error) {
	var (
		c   Config
		err error
	)

	if path == "" {
		path = DefaultPath
	}

	if err = loadDotEnv(path); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName(mainConfigName)
	v.SetConfigType("toml")
	v.AddConfigPath(path)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	if configAsJSON := os.Getenv(EnvConfigJSON); configAsJSON != "" {
		c, err = decodeAndMergeConfig(c, configAsJSON)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

// loadDotEnv loads a .env file from the working directory and from the config
// directory. Variables already set in the environment win.
func loadDotEnv(path string) error {
	for _, f := range []string{".env", filepath.Join(path, ".env")} {
		if _, err := os.Stat(f); err != nil {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return errors.Wrapf(err, "failed to load %s", f)
		}
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "Auth Starter")
	v.SetDefault("db.engine", EngineSQLite)
	v.SetDefault("db.path", "auth-starter.db")

	v.SetDefault("log.loglevel", "info")
	v.SetDefault("log.appname", "auth-starter")
	v.SetDefault("log.servicename", "auth-starter")
	v.SetDefault("log.console.enabled", true)

	v.SetDefault("webserver.port", 8080) //nolint:mnd
	v.SetDefault("webserver.url", "http://localhost:8080")
	v.SetDefault("webserver.shutdowntime", 5) //nolint:mnd
	v.SetDefault("webserver.checkaliveuri", "/health")

	v.SetDefault("routes.apiprefix", "/api")
	v.SetDefault("routes.authprefix", "/auth")
	v.SetDefault("routes.adminprefix", "/admin")

	v.SetDefault("roles", role.DefaultMapping())

	v.SetDefault("features.registration", true)
	v.SetDefault("features.profilemanagement", true)
	v.SetDefault("features.rolemanagement", true)

	v.SetDefault("tokens.name", DefaultTokenName)
	v.SetDefault("tokens.expiration", 0)
	v.SetDefault("tokens.refreshenabled", true)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.max", 5)         //nolint:mnd
	v.SetDefault("ratelimit.addressmax", 20) //nolint:mnd
	v.SetDefault("ratelimit.expiration", "1m")
	v.SetDefault("ratelimit.storage", LimiterStorageMemory)
	v.SetDefault("ratelimit.table", "rate_limits")

	v.SetDefault("seed.adminemail", "admin@example.com")
	v.SetDefault("seed.useremail", "user@example.com")
	v.SetDefault("seed.password", "password")
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	t := toml.NewEncoder(&buffer)
	t.SetIndentTables(true)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// RoleRegistry builds the role registry from the [Roles] table.
func (c *Config) RoleRegistry() (*role.Registry, error) {
	if len(c.Roles) == 0 {
		return role.Default(), nil
	}

	return role.NewRegistry(c.Roles) //nolint:wrapcheck
}

// validate the settings the service can't start without and fill in the
// few defaults that may have been zeroed by the JSON override.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	switch c.DB.Engine {
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrapf(ErrUnknownDBEngine, "%s: %q", invalidErrMessage, c.DB.Engine)
	}

	switch c.RateLimit.Storage {
	case LimiterStorageMemory, LimiterStorageDB, LimiterStorageRedis:
	case "":
		c.RateLimit.Storage = LimiterStorageMemory
	default:
		return errors.Wrapf(ErrUnknownLimiterStorage, "%s: %q", invalidErrMessage, c.RateLimit.Storage)
	}

	if c.Tokens.Name == "" {
		c.Tokens.Name = DefaultTokenName
	}

	if c.Tokens.Expiration < 0 {
		return errors.Wrap(ErrNegativeTokenExpiration, invalidErrMessage)
	}

	if _, err := c.RoleRegistry(); err != nil {
		return errors.Wrap(err, invalidErrMessage)
	}

	return nil
}
