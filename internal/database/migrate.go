package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var requiredTables = []string{
	"users",
	"job_seekers",
	"employers",
	"job_categories",
	"jobs",
	"job_skills",
	"saved_jobs",
	"applications",
	"application_status_history",
	"notifications",
	"password_resets",
	"query_log",
}

// Migrate applies every pending up migration embedded in the binary.
func Migrate(databaseURL string) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, pgx5URL(databaseURL))
	if err != nil {
		return fmt.Errorf("initialize migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			slog.Warn("close migration source", "error", srcErr)
		}
		if dbErr != nil {
			slog.Warn("close migration database", "error", dbErr)
		}
	}()
	m.Log = migrateLogger{}

	from, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("schema version %d is dirty; fix it manually before starting", from)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("database schema up to date", "version", from)
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	to, _, _ := m.Version()
	slog.Info("database schema migrated", "from_version", from, "to_version", to)
	return nil
}

// EnsureSchema verifies that every table the service queries exists.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_name = ANY($1)
	`, requiredTables).Scan(&count)
	if err != nil {
		return fmt.Errorf("check existing tables: %w", err)
	}

	if count != len(requiredTables) {
		return fmt.Errorf("schema incomplete: found %d of %d required tables", count, len(requiredTables))
	}

	return nil
}

// pgx5URL rewrites postgres:// URLs to the scheme the migrate pgx/v5 driver registers.
func pgx5URL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

type migrateLogger struct{}

func (migrateLogger) Printf(format string, args ...any) {
	slog.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (migrateLogger) Verbose() bool {
	return false
}
