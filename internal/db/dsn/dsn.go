// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/authstarter/go-auth-starter/internal/config"
)

// Create builds the Data Source Name for the configured engine.
func Create(cfg *config.Config) string {
	switch cfg.DB.Engine {
	case config.EnginePostgres:
		return Postgres(cfg.DB)
	case config.EngineSQLite:
		return SQLite(cfg.DB)
	default:
		return MySQL(cfg.DB)
	}
}

// MySQL builds a go-sql-driver/mysql DSN.
func MySQL(db config.DB) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.Extras,
	)
}

// Postgres builds a key/value DSN understood by pgx. Extras are appended as is.
func Postgres(db config.DB) string {
	out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		db.Host,
		db.Port,
		db.User,
		db.Password,
		db.Name,
	)

	if extras := strings.TrimSpace(db.Extras); extras != "" {
		out += " " + extras
	}

	return out
}

// SQLite returns the database file, falling back to a private in-memory database.
func SQLite(db config.DB) string {
	if db.Path == "" {
		return ":memory:"
	}

	return db.Path
}

// PostgresURI builds a postgres:// connection URI, the gofiber postgres storage wants this form.
func PostgresURI(db config.DB) string {
	out := fmt.Sprintf("postgres://%s:%s@%s:%d/%s", db.User, db.Password, db.Host, db.Port, db.Name)
	if extras := strings.TrimSpace(db.Extras); extras != "" {
		out += "?" + strings.ReplaceAll(extras, " ", "&")
	}

	return out
}
