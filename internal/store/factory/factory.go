// Package factory selects and constructs the cart repository from config,
// shared by the server and the cartctl CLI.
package factory

import (
	"context"
	"time"

	"wardrobewizard/backend/internal/config"
	"wardrobewizard/backend/internal/store"
	filestore "wardrobewizard/backend/internal/store/file"
	"wardrobewizard/backend/internal/store/memory"
	pgstore "wardrobewizard/backend/internal/store/postgres"
	redisstore "wardrobewizard/backend/internal/store/redis"
)

// New picks the backend by precedence: postgres when DATABASE_URL is set,
// else redis when REDIS_ADDR is set, else a file store when CART_FILE is
// set, else in-memory. The returned closer may be nil. The kind string names
// the chosen backend for logging.
func New(ctx context.Context, cfg config.Config) (repo store.Repository, closer func() error, kind string, err error) {
	switch {
	case cfg.DatabaseURL != "":
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, "postgres", err
		}
		return pg, pg.Close, "postgres", nil

	case cfg.RedisAddr != "":
		rs := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			time.Duration(cfg.RedisCartTTL)*time.Second)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, nil, "redis", err
		}
		return rs, rs.Close, "redis", nil

	case cfg.CartFile != "":
		fs, err := filestore.New(cfg.CartFile)
		if err != nil {
			return nil, nil, "file", err
		}
		return fs, nil, "file", nil

	default:
		return memory.New(), nil, "memory", nil
	}
}
