package insight

import (
	"strings"

	"github.com/JonMunkholm/datacatalog/internal/csvcodec"
)

// ExportFileName is the download name used for exported insight files.
const ExportFileName = "insights.csv"

// ExportCSV renders records as BOM-prefixed CSV text in the given order.
//
// Scalar cells are written as plain text without quoting. Array cells are
// JSON text wrapped in quotes with doubled inner quotes so that the importer
// reads them back intact.
func ExportCSV(records []*Insight) string {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(ExportHeader, string(csvcodec.Separator)))

	for _, rec := range records {
		lines = append(lines, exportLine(rec))
	}

	return csvcodec.BOM + strings.Join(lines, "\n")
}

func exportLine(r *Insight) string {
	cells := []string{
		csvcodec.Text(r.ID),
		csvcodec.Text(r.CreationNumber),
		r.Subject,
		r.InsightID,
		r.Status,
		csvcodec.Text(r.StartDate),
		csvcodec.Text(r.UpdateDate),
		csvcodec.Text(r.EndDate),
		r.Type,
		r.MainCategory,
		r.SubCategory,
		r.DataCategory,
		arrayCell(r.TargetBanks),
		r.LogicFormula,
		arrayCell(r.TargetTables),
		r.TargetUsers,
		r.RelatedInsight,
		r.RevenueCategory,
		r.IconType,
		r.Score,
		r.RelevancePolicy,
		r.RelevanceScore,
		csvcodec.Text(r.DisplayCount),
		csvcodec.Text(r.SelectCount),
		r.NextPolicy,
		r.NextValue,
		r.AppLink,
		r.ExternalLink,
		csvcodec.Text(r.TeaserImage),
		arrayCell(r.StoryImages),
		r.MaintenanceDate,
		r.MaintenanceReason,
		r.Remarks,
		r.UpdatedBy,
	}
	return strings.Join(cells, string(csvcodec.Separator))
}

func arrayCell(values []string) string {
	return csvcodec.Quote(csvcodec.EncodeArray(values))
}
