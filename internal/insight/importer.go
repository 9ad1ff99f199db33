package insight

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/datacatalog/internal/apperrors"
	"github.com/JonMunkholm/datacatalog/internal/csvcodec"
	"github.com/JonMunkholm/datacatalog/internal/logging"
)

// ErrEmptyOrInvalidInput is returned when an import file has no data lines.
var ErrEmptyOrInvalidInput = &apperrors.ValidationError{
	Field:   "file",
	Message: "CSV file is empty or invalid",
}

// Inserter persists a single insight.
type Inserter interface {
	Create(ctx context.Context, in Input) (*Insight, error)
}

// RowError records why one data line was not imported.
// Row is the 1-based line number counting the header as line 1.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportResult summarizes one import batch. SchemaVersion is the
// ImportSchemaVersion the rows were mapped with.
type ImportResult struct {
	ImportID      string     `json:"importId"`
	SchemaVersion int        `json:"schemaVersion"`
	Imported      int        `json:"imported"`
	Failed        int        `json:"errors"`
	Errors        []RowError `json:"errorDetails"`
	Records       []*Insight `json:"-"`
}

// Importer converts CSV text into insight records, one insert per row.
type Importer struct {
	store Inserter
}

// NewImporter returns an Importer writing through store.
func NewImporter(store Inserter) *Importer {
	return &Importer{store: store}
}

// ImportBatch parses fileText and inserts every data line individually.
//
// The first non-blank line is a header and is skipped. A failing row is
// recorded in the result and processing continues with the next row. If ctx
// is cancelled the partial result is returned together with ctx.Err(); rows
// not attempted are not reported.
func (imp *Importer) ImportBatch(ctx context.Context, fileText string) (*ImportResult, error) {
	lines := splitLines(fileText)
	if len(lines) < 2 {
		return nil, ErrEmptyOrInvalidInput
	}

	result := &ImportResult{
		ImportID:      uuid.NewString(),
		SchemaVersion: ImportSchemaVersion,
		Errors:        []RowError{},
	}
	logger := logging.WithFields(ctx, "import_id", result.ImportID)
	logger.Info("insight import started", "rows", len(lines)-1)

	for i, line := range lines[1:] {
		if err := ctx.Err(); err != nil {
			logger.Warn("insight import cancelled", "imported", result.Imported, "failed", result.Failed)
			return result, err
		}

		rowNum := i + 2
		rec, err := imp.importLine(ctx, line)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return result, err
			}
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: rowNum, Error: err.Error()})
			logger.Debug("insight row rejected", "row", rowNum, "error", err)
			continue
		}

		result.Imported++
		result.Records = append(result.Records, rec)
	}

	logger.Info("insight import completed", "imported", result.Imported, "failed", result.Failed)
	return result, nil
}

func (imp *Importer) importLine(ctx context.Context, line string) (*Insight, error) {
	in := MapFields(csvcodec.ParseLine(line))
	if err := in.Validate(); err != nil {
		return nil, err
	}

	rec, err := imp.store.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}
	return rec, nil
}

// MapFields builds an Input from positional values laid out per
// ImportSchema. Missing positions take their defaults.
func MapFields(values []string) Input {
	var in Input
	for _, col := range ImportSchema {
		raw := ""
		if col.Position < len(values) {
			raw = values[col.Position]
		}
		assign(&in, col, raw)
	}
	in.Normalize()
	return in
}

func assign(in *Input, col Column, raw string) {
	switch col.Kind {
	case KindIgnored:
		return
	case KindInt:
		n := parseCount(raw)
		switch col.Field {
		case "creationNumber":
			in.CreationNumber = n
		case "displayCount":
			in.DisplayCount = n
		case "selectCount":
			in.SelectCount = n
		}
	case KindNullableString:
		var p *string
		if raw != "" {
			v := raw
			p = &v
		}
		switch col.Field {
		case "startDate":
			in.StartDate = p
		case "updateDate":
			in.UpdateDate = p
		case "endDate":
			in.EndDate = p
		case "teaserImage":
			in.TeaserImage = p
		}
	case KindArray:
		xs := csvcodec.DecodeArray(raw)
		switch col.Field {
		case "targetBanks":
			in.TargetBanks = xs
		case "targetTables":
			in.TargetTables = xs
		case "storyImages":
			in.StoryImages = xs
		}
	case KindString:
		if p := stringField(in, col.Field); p != nil {
			*p = raw
		}
	}
}

func stringField(in *Input, field string) *string {
	switch field {
	case "subject":
		return &in.Subject
	case "insightId":
		return &in.InsightID
	case "status":
		return &in.Status
	case "type":
		return &in.Type
	case "mainCategory":
		return &in.MainCategory
	case "subCategory":
		return &in.SubCategory
	case "dataCategory":
		return &in.DataCategory
	case "logicFormula":
		return &in.LogicFormula
	case "targetUsers":
		return &in.TargetUsers
	case "relatedInsight":
		return &in.RelatedInsight
	case "revenueCategory":
		return &in.RevenueCategory
	case "iconType":
		return &in.IconType
	case "score":
		return &in.Score
	case "relevancePolicy":
		return &in.RelevancePolicy
	case "relevanceScore":
		return &in.RelevanceScore
	case "nextPolicy":
		return &in.NextPolicy
	case "nextValue":
		return &in.NextValue
	case "appLink":
		return &in.AppLink
	case "externalLink":
		return &in.ExternalLink
	case "maintenanceDate":
		return &in.MaintenanceDate
	case "maintenanceReason":
		return &in.MaintenanceReason
	case "remarks":
		return &in.Remarks
	case "updatedBy":
		return &in.UpdatedBy
	}
	return nil
}

// parseCount parses a counter cell from its leading integer, so "12abc"
// is 12 and "3.7" is 3. Missing, unparseable and zero values become 1.
func parseCount(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 1
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n == 0 {
		return 1
	}
	return n
}

// splitLines strips a leading BOM, splits on newlines and drops carriage
// returns and blank lines.
func splitLines(text string) []string {
	text = strings.TrimPrefix(text, csvcodec.BOM)
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSuffix(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}
