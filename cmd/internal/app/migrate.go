package app

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"callboard/cmd/internal/app/migrations"
)

// RunMigrations applies pending goose migrations against cfg.DatabaseURL.
// It opens a short-lived database/sql connection because goose does not
// speak pgxpool; the pool itself is created separately.
func RunMigrations(ctx context.Context, cfg Config, log Logger) error {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	log.Info("db.migrations.applied")
	return nil
}
