package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/JonMunkholm/datacatalog/internal/apperrors"
)

// ErrColumnLimit is returned when a table already has MaxColumnsPerTable
// columns.
var ErrColumnLimit = &apperrors.ValidationError{
	Field:   "table_id",
	Message: fmt.Sprintf("maximum %d columns per table exceeded", MaxColumnsPerTable),
}

// Store reads and writes the catalog.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store over db, typically opened by
// database.OpenCatalog.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const tableColumns = `id, system_name, COALESCE(subsystem_name, ''),
	COALESCE(schema_name, ''), creator, updater, COALESCE(created_at, ''),
	COALESCE(updated_at, ''), table_physical_name, table_logical_name,
	COALESCE(table_description, ''), COALESCE(file_format, ''),
	COALESCE(quote_char, ''), COALESCE(delimiter_char, ''),
	COALESCE(encoding, ''), COALESCE(line_break_code, '')`

const columnColumns = `id, table_id, column_physical_name, column_logical_name,
	data_type, COALESCE(data_length, ''), COALESCE(is_pk, 0), COALESCE(is_fk, 0),
	COALESCE(is_nullable, 1), COALESCE(default_value, ''), COALESCE(remarks, ''),
	COALESCE(index_name, ''), COALESCE(index_target_column, '')`

type scanner interface {
	Scan(dest ...any) error
}

// ----------------------------------------------------------------------------
// Tables
// ----------------------------------------------------------------------------

// ListTables returns every table, most recently updated first.
func (s *Store) ListTables(ctx context.Context) ([]DataTable, error) {
	return s.queryTables(ctx, `SELECT `+tableColumns+` FROM data_tables ORDER BY updated_at DESC, id DESC`)
}

// GetTable returns table id with its columns.
func (s *Store) GetTable(ctx context.Context, id int64) (*DataTable, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tableColumns+` FROM data_tables WHERE id = ?`, id)
	t, err := scanTable(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("table", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get table %d: %w", id, err)
	}

	cols, err := s.ListColumns(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Columns = cols
	return t, nil
}

// CreateTable inserts a table. An empty updater defaults to the creator.
func (s *Store) CreateTable(ctx context.Context, in TableInput) (*DataTable, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	if blank(in.Updater) {
		in.Updater = in.Creator
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO data_tables (
		system_name, subsystem_name, schema_name, creator, updater,
		table_physical_name, table_logical_name, table_description,
		file_format, quote_char, delimiter_char, encoding, line_break_code
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.SystemName, in.SubsystemName, in.SchemaName, in.Creator, in.Updater,
		in.TablePhysicalName, in.TableLogicalName, in.TableDescription,
		in.FileFormat, in.QuoteChar, in.DelimiterChar, in.Encoding, in.LineBreakCode,
	)
	if err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}
	return s.GetTable(ctx, id)
}

// UpdateTable replaces the writable attributes of table id and touches
// updated_at. An empty updater keeps the stored one.
func (s *Store) UpdateTable(ctx context.Context, id int64, in TableInput) (*DataTable, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE data_tables SET
		system_name = ?, subsystem_name = ?, schema_name = ?,
		updater = COALESCE(NULLIF(?, ''), updater), updated_at = CURRENT_TIMESTAMP,
		table_physical_name = ?, table_logical_name = ?, table_description = ?,
		file_format = ?, quote_char = ?, delimiter_char = ?, encoding = ?,
		line_break_code = ?
	WHERE id = ?`,
		in.SystemName, in.SubsystemName, in.SchemaName, in.Updater,
		in.TablePhysicalName, in.TableLogicalName, in.TableDescription,
		in.FileFormat, in.QuoteChar, in.DelimiterChar, in.Encoding,
		in.LineBreakCode, id,
	)
	if err := affectedOne(res, err, "table", id); err != nil {
		return nil, err
	}
	return s.GetTable(ctx, id)
}

// DeleteTable removes table id and, by cascade, its columns.
func (s *Store) DeleteTable(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM data_tables WHERE id = ?`, id)
	return affectedOne(res, err, "table", id)
}

func (s *Store) queryTables(ctx context.Context, query string, args ...any) ([]DataTable, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	out := []DataTable{}
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func scanTable(row scanner) (*DataTable, error) {
	var t DataTable
	err := row.Scan(
		&t.ID, &t.SystemName, &t.SubsystemName, &t.SchemaName, &t.Creator,
		&t.Updater, &t.CreatedAt, &t.UpdatedAt, &t.TablePhysicalName,
		&t.TableLogicalName, &t.TableDescription, &t.FileFormat, &t.QuoteChar,
		&t.DelimiterChar, &t.Encoding, &t.LineBreakCode,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ----------------------------------------------------------------------------
// Columns
// ----------------------------------------------------------------------------

// ListColumns returns the columns of table tableID in insertion order.
func (s *Store) ListColumns(ctx context.Context, tableID int64) ([]DataColumn, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+columnColumns+` FROM data_columns WHERE table_id = ? ORDER BY id`, tableID)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	out := []DataColumn{}
	for rows.Next() {
		c, err := scanColumn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// GetColumn returns column id.
func (s *Store) GetColumn(ctx context.Context, id int64) (*DataColumn, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+columnColumns+` FROM data_columns WHERE id = ?`, id)
	c, err := scanColumn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("column", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get column %d: %w", id, err)
	}
	return c, nil
}

// CreateColumn inserts a column. The column count check and the insert
// share one transaction so the cap cannot be overrun.
func (s *Store) CreateColumn(ctx context.Context, in ColumnInput) (*DataColumn, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create column: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM data_tables WHERE id = ?`, in.TableID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("table", in.TableID)
	}
	if err != nil {
		return nil, fmt.Errorf("check table %d: %w", in.TableID, err)
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM data_columns WHERE table_id = ?`, in.TableID).Scan(&count); err != nil {
		return nil, fmt.Errorf("count columns: %w", err)
	}
	if count >= MaxColumnsPerTable {
		return nil, ErrColumnLimit
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO data_columns (
		table_id, column_physical_name, column_logical_name, data_type,
		data_length, is_pk, is_fk, is_nullable, default_value, remarks,
		index_name, index_target_column
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.TableID, in.ColumnPhysicalName, in.ColumnLogicalName, in.DataType,
		in.DataLength, boolInt(in.IsPK), boolInt(in.IsFK), boolInt(in.IsNullable),
		in.DefaultValue, in.Remarks, in.IndexName, in.IndexTargetColumn,
	)
	if err != nil {
		return nil, fmt.Errorf("create column: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create column: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create column: %w", err)
	}
	return s.GetColumn(ctx, id)
}

// UpdateColumn replaces the writable attributes of column id.
// The owning table never changes.
func (s *Store) UpdateColumn(ctx context.Context, id int64, in ColumnInput) (*DataColumn, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE data_columns SET
		column_physical_name = ?, column_logical_name = ?, data_type = ?,
		data_length = ?, is_pk = ?, is_fk = ?, is_nullable = ?,
		default_value = ?, remarks = ?, index_name = ?, index_target_column = ?
	WHERE id = ?`,
		in.ColumnPhysicalName, in.ColumnLogicalName, in.DataType,
		in.DataLength, boolInt(in.IsPK), boolInt(in.IsFK), boolInt(in.IsNullable),
		in.DefaultValue, in.Remarks, in.IndexName, in.IndexTargetColumn, id,
	)
	if err := affectedOne(res, err, "column", id); err != nil {
		return nil, err
	}
	return s.GetColumn(ctx, id)
}

// DeleteColumn removes column id.
func (s *Store) DeleteColumn(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM data_columns WHERE id = ?`, id)
	return affectedOne(res, err, "column", id)
}

func scanColumn(row scanner) (*DataColumn, error) {
	var c DataColumn
	err := row.Scan(
		&c.ID, &c.TableID, &c.ColumnPhysicalName, &c.ColumnLogicalName,
		&c.DataType, &c.DataLength, &c.IsPK, &c.IsFK, &c.IsNullable,
		&c.DefaultValue, &c.Remarks, &c.IndexName, &c.IndexTargetColumn,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ----------------------------------------------------------------------------
// Users
// ----------------------------------------------------------------------------

// ListUsers returns every user ordered by id.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, username, name, role FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.Role); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// GetUser returns user id.
func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `SELECT id, username, name, role FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Username, &u.Name, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

// CreateUser inserts a user. Usernames are unique.
func (s *Store) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO users (username, name, role) VALUES (?, ?, ?)`,
		in.Username, in.Name, in.Role)
	if isUniqueViolation(err) {
		return nil, apperrors.Validation("username", "%q already exists", in.Username)
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.GetUser(ctx, id)
}

// UpdateUser changes the name and role of user id. The username is fixed.
func (s *Store) UpdateUser(ctx context.Context, id int64, in UserInput) (*User, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE users SET name = ?, role = ? WHERE id = ?`, in.Name, in.Role, id)
	if err := affectedOne(res, err, "user", id); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// DeleteUser removes user id.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return affectedOne(res, err, "user", id)
}

// ----------------------------------------------------------------------------
// Helpers
// ----------------------------------------------------------------------------

func affectedOne(res sql.Result, err error, kind string, id int64) error {
	if err != nil {
		return fmt.Errorf("write %s %d: %w", kind, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write %s %d: %w", kind, id, err)
	}
	if n == 0 {
		return apperrors.NotFound(kind, id)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
