package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrator applies the embedded SQL migrations in lexical order and records
// each applied file in schema_migrations.
type Migrator struct {
	pool   *pgxpool.Pool
	files  fs.FS
	logger *slog.Logger
}

// NewMigrator creates a migrator over the embedded migrations directory.
func NewMigrator(pool *pgxpool.Pool, logger *slog.Logger) *Migrator {
	sub, _ := fs.Sub(migrationFS, "migrations")
	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{pool: pool, files: sub, logger: logger}
}

// Run executes every migration not yet recorded.
func (m *Migrator) Run(ctx context.Context) error {
	if _, err := m.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return fmt.Errorf("platform/db: create schema_migrations: %w", err)
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return err
	}

	names, err := Pending(m.files, applied)
	if err != nil {
		return err
	}
	for _, name := range names {
		content, err := fs.ReadFile(m.files, name)
		if err != nil {
			return fmt.Errorf("platform/db: read migration %s: %w", name, err)
		}
		m.logger.Info("applying migration", slog.String("file", name))
		if _, err := m.pool.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("platform/db: run migration %s: %w", name, err)
		}
		if _, err := m.pool.Exec(ctx, `INSERT INTO schema_migrations (filename) VALUES ($1) ON CONFLICT (filename) DO NOTHING`, name); err != nil {
			return fmt.Errorf("platform/db: record migration %s: %w", name, err)
		}
	}
	if len(names) == 0 {
		m.logger.Info("database schema up to date")
	}
	return nil
}

func (m *Migrator) applied(ctx context.Context) (map[string]bool, error) {
	rows, err := m.pool.Query(ctx, `SELECT filename FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("platform/db: list migrations: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = true
	}
	return out, rows.Err()
}

// Pending lists the .sql files in files that are not in applied, sorted.
func Pending(files fs.FS, applied map[string]bool) ([]string, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("platform/db: read migrations: %w", err)
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") || applied[name] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
