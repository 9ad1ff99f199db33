package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/datacatalog/internal/catalog"
	"github.com/JonMunkholm/datacatalog/internal/insight"
)

func TestCatalogPage_EscapesContent(t *testing.T) {
	var buf bytes.Buffer
	tables := []catalog.DataTable{{ID: 7, SystemName: "勘定系", TablePhysicalName: "<script>x</script>"}}
	users := []catalog.User{{Name: "管理者", Role: catalog.RoleEditor}}

	require.NoError(t, CatalogPage(tables, users, `"q"`).Render(context.Background(), &buf))
	html := buf.String()

	assert.Contains(t, html, "&lt;script&gt;x&lt;/script&gt;")
	assert.NotContains(t, html, "<script>x")
	assert.Contains(t, html, `/api/backup/csv/7`)
	assert.Contains(t, html, "管理者 (editor)")
	assert.Contains(t, html, "&#34;q&#34;")
}

func TestInsightsPage(t *testing.T) {
	var buf bytes.Buffer
	records := []*insight.Insight{{CreationNumber: 3, InsightID: "INS-1", TargetBanks: []string{"A", "B"}}}

	require.NoError(t, InsightsPage(records).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "<td>INS-1</td>")
	assert.Contains(t, buf.String(), "<td>A, B</td>")

	buf.Reset()
	require.NoError(t, InsightsPage(nil).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "インサイトがありません")
}

func TestErrorAlert(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ErrorAlert("Table not found", "Refresh", "CAT001").Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "(CAT001)")
}
