package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/authstarter/go-auth-starter/internal/config"
	"github.com/authstarter/go-auth-starter/internal/db/dsn"
	"github.com/authstarter/go-auth-starter/internal/db/models"
	gormlog "github.com/authstarter/go-auth-starter/internal/logger/adapter/gorm"
)

// dialector selects the gorm driver of the configured engine.
func dialector(db config.DB) (gorm.Dialector, error) {
	switch db.Engine {
	case config.EngineMySQL:
		return mysql.Open(dsn.MySQL(db)), nil
	case config.EnginePostgres:
		return postgres.Open(dsn.Postgres(db)), nil
	case config.EngineSQLite:
		return sqlite.Open(dsn.SQLite(db)), nil
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownDBEngine, db.Engine)
	}
}

// OpenDB connects to the configured database and migrates the schema.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	d, err := dialector(cfg.DB)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger: gormlog.New(gormlog.Config{
			SlowThreshold:        gormlog.ConfigDefault.SlowThreshold,
			IgnoreRecordNotFound: true,
			Debug:                cfg.DB.Debug,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if cfg.DB.Engine == config.EngineSQLite {
		if err := prepareSQLite(db); err != nil {
			return nil, err
		}
	}

	if err := models.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// prepareSQLite pins sqlite to one connection, an in-memory database only
// exists on the connection that created it and sqlite serialises writers anyway.
func prepareSQLite(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return nil
}
