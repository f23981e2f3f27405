package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"transaction_dashboard_backend/platform/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies all pending goose migrations found under dir in fsys.
func RunMigrations(ctx context.Context, cfg config.DatabaseConfig, fsys fs.FS, dir string) error {
	sqlDB, err := sql.Open("pgx", cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer sqlDB.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, mustSub(fsys, dir))
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	if dir == "" || dir == "." {
		return fsys
	}
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return fsys
	}
	return sub
}
