package catalog

import (
	"context"
	"strings"

	"github.com/JonMunkholm/datacatalog/internal/csvcodec"
)

const (
	tableInfoMarker  = "# テーブル情報"
	columnDefsMarker = "# カラム定義"
)

var (
	tableInfoHeader  = []string{"システム名", "サブシステム名", "スキーマ名", "テーブル物理名", "テーブル論理名", "テーブル概要"}
	columnDefsHeader = []string{"カラム物理名", "カラム論理名", "データ型", "データ長", "主キー", "外部キー", "NULL許可", "デフォルト値", "備考", "インデックス名", "インデックス対象カラム"}
)

// ExportTableCSV renders one table and its columns as a two-section CSV
// document. Every data cell is quoted with doubled inner quotes.
func (s *Store) ExportTableCSV(ctx context.Context, id int64) (filename, content string, err error) {
	t, err := s.GetTable(ctx, id)
	if err != nil {
		return "", "", err
	}
	return t.TablePhysicalName + ".csv", TableCSV(t), nil
}

// TableCSV renders t, including t.Columns, in the single-table format.
func TableCSV(t *DataTable) string {
	var b strings.Builder

	b.WriteString(tableInfoMarker + "\n")
	b.WriteString(strings.Join(tableInfoHeader, ",") + "\n")
	b.WriteString(quotedLine(
		t.SystemName, t.SubsystemName, t.SchemaName,
		t.TablePhysicalName, t.TableLogicalName, t.TableDescription,
	))
	b.WriteString("\n")

	b.WriteString(columnDefsMarker + "\n")
	b.WriteString(strings.Join(columnDefsHeader, ",") + "\n")
	for _, c := range t.Columns {
		b.WriteString(quotedLine(
			c.ColumnPhysicalName, c.ColumnLogicalName, c.DataType, c.DataLength,
			flag(c.IsPK, "PK", ""), flag(c.IsFK, "FK", ""), flag(c.IsNullable, "YES", "NO"),
			c.DefaultValue, c.Remarks, c.IndexName, c.IndexTargetColumn,
		))
	}

	return b.String()
}

func quotedLine(values ...string) string {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = csvcodec.EncodeScalar(v)
	}
	return csvcodec.JoinQuoted(cells) + "\n"
}

func flag(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}
