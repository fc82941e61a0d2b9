package postgres

import (
	"context"
	"fmt"
	"time"

	"user-auth-service/internal/infrastructure/database/postgres/migrations"
	"user-auth-service/internal/logger"

	"github.com/pressly/goose/v3"
)

// Migrate applies the embedded schema migrations that have not run yet.
func (d *DB) Migrate(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("error getting sql.DB: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(logger.Printf{Sugar: logger.L().Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("configure goose: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if err := goose.UpContext(runCtx, sqlDB, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
