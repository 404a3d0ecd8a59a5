package app

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies pending goose migrations, including the exclusion
// constraint that makes overlapping scheduled bookings impossible at the
// storage layer. Goose needs database/sql, so it opens its own short-lived
// connection through the pgx stdlib driver.
func RunMigrations(databaseURL, dir string, log *slog.Logger) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open db for migrations: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	log.Info("migrations applied", "dir", dir)
	return nil
}
