// Package database opens the user store selected by configuration.
package database

import (
	"context"
	"fmt"

	"user-auth-service/internal/config"
	"user-auth-service/internal/domain/user"
	"user-auth-service/internal/infrastructure/database/memory"
	"user-auth-service/internal/infrastructure/database/mongodb"
	"user-auth-service/internal/infrastructure/database/postgres"
	"user-auth-service/internal/logger"

	"go.uber.org/zap"
)

// Store is a user repository together with its connection lifecycle.
type Store interface {
	user.Repository
	Health(ctx context.Context) error
	Close(ctx context.Context) error
}

var (
	_ Store = (*memory.UserRepository)(nil)
	_ Store = (*mongodb.UserRepository)(nil)
	_ Store = (*postgres.UserRepository)(nil)
)

// Open connects to the backend named by cfg.Database.Driver. Postgres
// migrations are applied before the store is returned.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		db, err := mongodb.NewDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return mongodb.NewUserRepository(db), nil

	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close(ctx)
			return nil, err
		}
		return postgres.NewUserRepository(db), nil

	case config.DriverMemory:
		logger.Warn("Using in-memory user store, data is lost on restart",
			zap.String("driver", config.DriverMemory),
		)
		return memory.NewUserRepository(), nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}
