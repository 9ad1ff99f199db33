package insight

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/datacatalog/internal/csvcodec"
)

func strPtr(s string) *string { return &s }

func sampleInsight() *Insight {
	return &Insight{
		ID:              12,
		CreationNumber:  3,
		Subject:         "給与振込のお知らせ",
		InsightID:       "INS-012",
		Status:          "公開",
		StartDate:       strPtr("2024-04-01"),
		Type:            "通知",
		TargetBanks:     []string{"A", "B"},
		TargetTables:    []string{"DEPOSIT_TRN"},
		DisplayCount:    2,
		SelectCount:     1,
		TeaserImage:     strPtr("/uploads/teaser.png"),
		StoryImages:     []string{},
		MaintenanceDate: DefaultMaintenanceDate,
		UpdatedBy:       "admin",
	}
}

func TestExportCSV_Layout(t *testing.T) {
	out := ExportCSV([]*Insight{sampleInsight()})

	require.True(t, strings.HasPrefix(out, csvcodec.BOM))
	lines := strings.Split(strings.TrimPrefix(out, csvcodec.BOM), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(ExportHeader, ","), lines[0])
	assert.Len(t, ExportHeader, 34)

	fields := csvcodec.ParseLine(lines[1])
	require.Len(t, fields, len(ExportHeader))
	assert.Equal(t, "12", fields[0])
	assert.Equal(t, "3", fields[1])
	assert.Equal(t, "2024-04-01", fields[5])
	assert.Equal(t, "", fields[6], "nil date exports empty")
	assert.Equal(t, `["A","B"]`, fields[12])
	assert.Equal(t, `[]`, fields[29])
	assert.Equal(t, "/uploads/teaser.png", fields[28])
}

func TestExportCSV_ScalarsAreNotQuoted(t *testing.T) {
	rec := sampleInsight()
	rec.Subject = "plain subject"
	out := ExportCSV([]*Insight{rec})
	assert.Contains(t, out, ",plain subject,")
}

func TestExportCSV_Empty(t *testing.T) {
	out := ExportCSV(nil)
	assert.Equal(t, csvcodec.BOM+strings.Join(ExportHeader, ","), out)
}

func TestExportThenImport_RoundTrip(t *testing.T) {
	src := sampleInsight()
	out := ExportCSV([]*Insight{src})

	store := &memStore{}
	res, err := NewImporter(store).ImportBatch(context.Background(), out)
	require.NoError(t, err)
	require.Equal(t, 1, res.Imported, "errors: %v", res.Errors)

	got := store.records[0]
	assert.Equal(t, []string{"A", "B"}, got.TargetBanks)
	assert.Equal(t, src.TargetTables, got.TargetTables)
	assert.Equal(t, []string{}, got.StoryImages)
	assert.Equal(t, src.InsightID, got.InsightID)
	assert.Equal(t, src.CreationNumber, got.CreationNumber)
	assert.Equal(t, src.DisplayCount, got.DisplayCount)
	assert.Equal(t, *src.StartDate, *got.StartDate)
	assert.Nil(t, got.EndDate)
	assert.Equal(t, *src.TeaserImage, *got.TeaserImage)
	assert.Equal(t, src.MaintenanceDate, got.MaintenanceDate)
	assert.Equal(t, src.UpdatedBy, got.UpdatedBy)
}
