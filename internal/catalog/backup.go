package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Snapshot is the full catalog content written by Backup.
type Snapshot struct {
	Tables    []DataTable  `json:"tables"`
	Columns   []DataColumn `json:"columns"`
	Users     []User       `json:"users"`
	Timestamp string       `json:"timestamp"`
}

// Snapshot reads every table, column and user.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	tables, err := s.queryTables(ctx, `SELECT `+tableColumns+` FROM data_tables ORDER BY id`)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+columnColumns+` FROM data_columns ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()
	columns := []DataColumn{}
	for rows.Next() {
		c, err := scanColumn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Tables:    tables,
		Columns:   columns,
		Users:     users,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}, nil
}

// Backup writes a JSON snapshot into dir and returns the file path.
func (s *Store) Backup(ctx context.Context, dir string) (string, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("backup: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("backup: create dir: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("backup: encode: %w", err)
	}

	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(snap.Timestamp)
	path := filepath.Join(dir, "catalog_backup_"+stamp+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("backup: write: %w", err)
	}
	return path, nil
}
