package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Default catalog user created when the users table is empty.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminName     = "管理者"
	DefaultAdminRole     = "editor"
)

// OpenCatalog opens the SQLite catalog at path with foreign keys enforced
// and applies the schema. ":memory:" opens a private in-memory database.
func OpenCatalog(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create catalog dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", catalogDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	// A single connection serializes writers and keeps ":memory:" databases
	// shared across calls.
	db.SetMaxOpenConns(1)

	if err := InitCatalog(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func catalogDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// InitCatalog creates the catalog schema and, when no users exist, the
// default editor account. The count and insert run in one transaction so
// concurrent initializations create at most one default user.
func InitCatalog(ctx context.Context, db *sql.DB) error {
	for i, ddl := range catalogSchema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("catalog schema step %d: %w", i+1, err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bootstrap: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count == 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (username, name, role) VALUES (?, ?, ?)`,
			DefaultAdminUsername, DefaultAdminName, DefaultAdminRole,
		); err != nil {
			return fmt.Errorf("create default user: %w", err)
		}
		slog.Info("default editor user created", "username", DefaultAdminUsername)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bootstrap: %w", err)
	}
	return nil
}

var catalogSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		role TEXT NOT NULL CHECK(role IN ('editor', 'viewer'))
	)`,
	`CREATE TABLE IF NOT EXISTS data_tables (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		system_name TEXT NOT NULL,
		subsystem_name TEXT,
		schema_name TEXT,
		creator TEXT NOT NULL,
		updater TEXT NOT NULL,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
		table_physical_name TEXT NOT NULL,
		table_logical_name TEXT NOT NULL,
		table_description TEXT,
		file_format TEXT,
		quote_char TEXT,
		delimiter_char TEXT,
		encoding TEXT,
		line_break_code TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS data_columns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		table_id INTEGER NOT NULL,
		column_physical_name TEXT NOT NULL,
		column_logical_name TEXT NOT NULL,
		data_type TEXT NOT NULL,
		data_length TEXT,
		is_pk INTEGER DEFAULT 0,
		is_fk INTEGER DEFAULT 0,
		is_nullable INTEGER DEFAULT 1,
		default_value TEXT,
		remarks TEXT,
		index_name TEXT,
		index_target_column TEXT,
		FOREIGN KEY (table_id) REFERENCES data_tables(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_table_logical ON data_tables(table_logical_name)`,
	`CREATE INDEX IF NOT EXISTS idx_table_physical ON data_tables(table_physical_name)`,
	`CREATE INDEX IF NOT EXISTS idx_table_description ON data_tables(table_description)`,
	`CREATE INDEX IF NOT EXISTS idx_column_table ON data_columns(table_id)`,
	`CREATE INDEX IF NOT EXISTS idx_column_logical ON data_columns(column_logical_name)`,
	`CREATE INDEX IF NOT EXISTS idx_column_physical ON data_columns(column_physical_name)`,
}
