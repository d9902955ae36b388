package store

import (
	"context"
	"fmt"

	"gitlab.com/yelinaung/fxrates/internal/database"
	"gitlab.com/yelinaung/fxrates/internal/logger"
	"gitlab.com/yelinaung/fxrates/internal/repository"
)

// Config controls which backend Open constructs.
type Config struct {
	Driver    string
	DSN       string
	KeyPrefix string
}

// Open constructs a KV backend for cfg.Driver. DSN is the postgres URL, the
// redis URL or the sqlite path depending on the driver.
func Open(ctx context.Context, cfg Config) (KV, error) {
	drv := cfg.Driver
	if drv == "" {
		drv = "memory"
	}

	logger.Log.Info().Str("driver", drv).Msg("Opening rate store")

	switch drv {
	case "memory":
		return NewMemory(), nil

	case "postgres":
		pool, err := database.Connect(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return repository.NewKVRepositoryWithCloser(pool, pool.Close), nil

	case "redis":
		return NewRedis(ctx, cfg.DSN, cfg.KeyPrefix)

	case "sqlite":
		return NewSQLite(ctx, cfg.DSN)

	default:
		return nil, fmt.Errorf("unsupported store driver %q", drv)
	}
}
