// Package catalog stores metadata about external database tables and their
// columns, plus the users allowed to edit it, in a SQLite database.
package catalog

import (
	"strings"

	"github.com/JonMunkholm/datacatalog/internal/apperrors"
)

// MaxColumnsPerTable caps the number of columns one table may own.
const MaxColumnsPerTable = 500

// User roles.
const (
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// DataTable describes one external table.
type DataTable struct {
	ID                int64        `json:"id"`
	SystemName        string       `json:"system_name"`
	SubsystemName     string       `json:"subsystem_name"`
	SchemaName        string       `json:"schema_name"`
	Creator           string       `json:"creator"`
	Updater           string       `json:"updater"`
	CreatedAt         string       `json:"created_at"`
	UpdatedAt         string       `json:"updated_at"`
	TablePhysicalName string       `json:"table_physical_name"`
	TableLogicalName  string       `json:"table_logical_name"`
	TableDescription  string       `json:"table_description"`
	FileFormat        string       `json:"file_format"`
	QuoteChar         string       `json:"quote_char"`
	DelimiterChar     string       `json:"delimiter_char"`
	Encoding          string       `json:"encoding"`
	LineBreakCode     string       `json:"line_break_code"`
	Columns           []DataColumn `json:"columns,omitempty"`
}

// TableInput holds the writable attributes of a DataTable.
type TableInput struct {
	SystemName        string `json:"system_name"`
	SubsystemName     string `json:"subsystem_name"`
	SchemaName        string `json:"schema_name"`
	Creator           string `json:"creator"`
	Updater           string `json:"updater"`
	TablePhysicalName string `json:"table_physical_name"`
	TableLogicalName  string `json:"table_logical_name"`
	TableDescription  string `json:"table_description"`
	FileFormat        string `json:"file_format"`
	QuoteChar         string `json:"quote_char"`
	DelimiterChar     string `json:"delimiter_char"`
	Encoding          string `json:"encoding"`
	LineBreakCode     string `json:"line_break_code"`
}

func (in *TableInput) validate(creating bool) error {
	switch {
	case blank(in.SystemName):
		return apperrors.Validation("system_name", "required")
	case creating && blank(in.Creator):
		return apperrors.Validation("creator", "required")
	case blank(in.TablePhysicalName):
		return apperrors.Validation("table_physical_name", "required")
	case blank(in.TableLogicalName):
		return apperrors.Validation("table_logical_name", "required")
	}
	return nil
}

// DataColumn describes one column of a DataTable.
type DataColumn struct {
	ID                 int64  `json:"id"`
	TableID            int64  `json:"table_id"`
	ColumnPhysicalName string `json:"column_physical_name"`
	ColumnLogicalName  string `json:"column_logical_name"`
	DataType           string `json:"data_type"`
	DataLength         string `json:"data_length"`
	IsPK               bool   `json:"is_pk"`
	IsFK               bool   `json:"is_fk"`
	IsNullable         bool   `json:"is_nullable"`
	DefaultValue       string `json:"default_value"`
	Remarks            string `json:"remarks"`
	IndexName          string `json:"index_name"`
	IndexTargetColumn  string `json:"index_target_column"`
}

// ColumnInput holds the writable attributes of a DataColumn. TableID is
// only read on create.
type ColumnInput struct {
	TableID            int64  `json:"table_id"`
	ColumnPhysicalName string `json:"column_physical_name"`
	ColumnLogicalName  string `json:"column_logical_name"`
	DataType           string `json:"data_type"`
	DataLength         string `json:"data_length"`
	IsPK               bool   `json:"is_pk"`
	IsFK               bool   `json:"is_fk"`
	IsNullable         bool   `json:"is_nullable"`
	DefaultValue       string `json:"default_value"`
	Remarks            string `json:"remarks"`
	IndexName          string `json:"index_name"`
	IndexTargetColumn  string `json:"index_target_column"`
}

func (in *ColumnInput) validate() error {
	switch {
	case blank(in.ColumnPhysicalName):
		return apperrors.Validation("column_physical_name", "required")
	case blank(in.ColumnLogicalName):
		return apperrors.Validation("column_logical_name", "required")
	case blank(in.DataType):
		return apperrors.Validation("data_type", "required")
	}
	return nil
}

// User is a catalog user.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// UserInput holds the writable attributes of a User.
type UserInput struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func (in *UserInput) validate(creating bool) error {
	if creating && blank(in.Username) {
		return apperrors.Validation("username", "required")
	}
	if blank(in.Name) {
		return apperrors.Validation("name", "required")
	}
	if in.Role != RoleEditor && in.Role != RoleViewer {
		return apperrors.Validation("role", "must be %q or %q", RoleEditor, RoleViewer)
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
