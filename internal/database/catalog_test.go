package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCatalog_CreatesDefaultUser(t *testing.T) {
	ctx := context.Background()
	db, err := OpenCatalog(ctx, filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var username, name, role string
	err = db.QueryRowContext(ctx, `SELECT username, name, role FROM users`).Scan(&username, &name, &role)
	require.NoError(t, err)
	assert.Equal(t, DefaultAdminUsername, username)
	assert.Equal(t, DefaultAdminName, name)
	assert.Equal(t, DefaultAdminRole, role)
}

func TestInitCatalog_Idempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "catalog.db")

	db, err := OpenCatalog(ctx, path)
	require.NoError(t, err)
	require.NoError(t, InitCatalog(ctx, db))
	require.NoError(t, db.Close())

	db, err = OpenCatalog(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestInitCatalog_SkipsBootstrapWhenUsersExist(t *testing.T) {
	ctx := context.Background()
	db, err := OpenCatalog(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.ExecContext(ctx, `DELETE FROM users`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO users (username, name, role) VALUES ('viewer1', 'Viewer', 'viewer')`)
	require.NoError(t, err)

	require.NoError(t, InitCatalog(ctx, db))

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, DefaultAdminUsername).Scan(&count))
	assert.Zero(t, count)
}

func TestOpenCatalog_ForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()
	db, err := OpenCatalog(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var fk int
	require.NoError(t, db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)

	_, err = db.ExecContext(ctx, `INSERT INTO data_columns (table_id, column_physical_name, column_logical_name, data_type) VALUES (999, 'a', 'b', 'TEXT')`)
	assert.Error(t, err)
}

func TestDatabaseName(t *testing.T) {
	assert.Equal(t, "insights", databaseName("postgres://u:p@localhost:5432/insights?sslmode=disable"))
	assert.Equal(t, "", databaseName("postgres://localhost"))
}
