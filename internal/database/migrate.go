package database

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/fyyur/internal/database/migrations"
)

const migrationTable = "schema_migrations"

// Migrate applies the embedded migrations for db's dialect. Each file runs
// at most once and is recorded in schema_migrations.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	return ApplyMigrations(ctx, db, migrations.FS, db.DriverName())
}

// ApplyMigrations executes the .sql files under root in lexical order,
// skipping the ones already recorded.
func ApplyMigrations(ctx context.Context, db *sqlx.DB, migrationFS fs.FS, root string) error {
	if db == nil {
		return fmt.Errorf("sql db is required")
	}

	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	createSQL := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		name VARCHAR(255) PRIMARY KEY,
		applied_at BIGINT NOT NULL
	)`, migrationTable)
	if _, err := db.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		name := path.Join(root, file)
		applied, err := isApplied(ctx, db, name)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(migrationFS, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if err := applyOne(ctx, db, name, string(content)); err != nil {
			return err
		}
	}
	return nil
}

// applyOne runs one migration file. MySQL commits DDL implicitly, so the
// transaction only guarantees atomicity on the other dialects.
func applyOne(ctx context.Context, db *sqlx.DB, name, content string) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}
	for _, stmt := range SplitStatements(content) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", name, err)
		}
	}
	record := tx.Rebind(fmt.Sprintf("INSERT INTO %s (name, applied_at) VALUES (?, ?)", migrationTable))
	if _, err := tx.ExecContext(ctx, record, name, time.Now().UTC().UnixMilli()); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}

// SplitStatements splits a migration file on semicolons that end a line and
// drops blank statements and comment-only lines.
func SplitStatements(content string) []string {
	var (
		out []string
		cur strings.Builder
	)
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		cur.WriteString(line)
		cur.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			if stmt := strings.TrimSuffix(strings.TrimSpace(cur.String()), ";"); stmt != "" {
				out = append(out, stmt)
			}
			cur.Reset()
		}
	}
	if stmt := strings.TrimSpace(cur.String()); stmt != "" {
		out = append(out, stmt)
	}
	return out
}

func isApplied(ctx context.Context, db *sqlx.DB, name string) (bool, error) {
	var n int
	q := db.Rebind("SELECT COUNT(*) FROM " + migrationTable + " WHERE name = ?")
	if err := db.GetContext(ctx, &n, q, name); err != nil {
		return false, err
	}
	return n > 0, nil
}
