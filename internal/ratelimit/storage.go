package ratelimit

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	mysqlstorage "github.com/gofiber/storage/mysql/v2"
	postgresstorage "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"

	"github.com/authstarter/go-auth-starter/internal/config"
	"github.com/authstarter/go-auth-starter/internal/db/dsn"
)

const defaultTable = "rate_limits"

// NewStorage opens the counter storage selected by cfg.RateLimit.Storage.
// A nil storage means the limiter keeps its counters in memory.
func NewStorage(ctx context.Context, cfg *config.Config) (fiber.Storage, error) {
	rl := cfg.RateLimit

	table := rl.Table
	if table == "" {
		table = defaultTable
	}

	switch rl.Storage {
	case config.LimiterStorageDB:
		return newDBStorage(cfg.DB, table)
	case config.LimiterStorageRedis:
		s, err := NewRedisStorage(ctx, RedisConfig{
			Addr:     rl.Redis.Addr,
			Password: rl.Redis.Password,
			DB:       rl.Redis.DB,
			Prefix:   table + ":",
		})
		if err != nil {
			return nil, err
		}

		log.Debug().Str("addr", rl.Redis.Addr).Msg("rate limit counters stored in redis")

		return s, nil
	default:
		return nil, nil
	}
}

func newDBStorage(db config.DB, table string) (fiber.Storage, error) {
	switch db.Engine {
	case config.EngineMySQL:
		log.Debug().Str("table", table).Msg("rate limit counters stored in mysql")

		return mysqlstorage.New(mysqlstorage.Config{
			ConnectionURI: dsn.MySQL(db),
			Table:         table,
		}), nil
	case config.EnginePostgres:
		log.Debug().Str("table", table).Msg("rate limit counters stored in postgres")

		return postgresstorage.New(postgresstorage.Config{
			ConnectionURI: dsn.PostgresURI(db),
			Table:         table,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrStorageUnsupported, db.Engine)
	}
}
