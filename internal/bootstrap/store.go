package bootstrap

import (
	"context"
	"fmt"

	"github.com/osse101/Credence_Go/internal/config"
	"github.com/osse101/Credence_Go/internal/database"
	"github.com/osse101/Credence_Go/internal/database/postgres"
	"github.com/osse101/Credence_Go/internal/database/sqlite"
	"github.com/osse101/Credence_Go/internal/logger"
	"github.com/osse101/Credence_Go/internal/repository"
)

// OpenStore connects to the configured backend and migrates it to the latest
// schema. The caller owns the returned store and must Close it.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenStore, err)
		}
		if err := database.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
		}
		logger.Info(LogMsgStoreOpened, "driver", cfg.StorageDriver, "host", cfg.DBHost, "db", cfg.DBName)
		return postgres.NewStore(pool), nil

	case config.StorageDriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenStore, err)
		}
		logger.Info(LogMsgStoreOpened, "driver", cfg.StorageDriver, "path", cfg.SQLitePath)
		return store, nil

	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnknownStorageDriver, cfg.StorageDriver)
	}
}
