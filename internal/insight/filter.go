package insight

import (
	"fmt"
	"strconv"
	"strings"
)

// Filter narrows List results. Zero values are ignored.
//
// Exact-match fields: CreationNumber, Status, Type, MainCategory,
// DataCategory. Substring fields: Subject, InsightID, SubCategory,
// LogicFormula, RelatedInsight. TargetBanks and TargetTables match a record
// sharing at least one element with the filter.
type Filter struct {
	CreationNumber int
	Subject        string
	InsightID      string
	Status         string
	Type           string
	MainCategory   string
	SubCategory    string
	DataCategory   string
	LogicFormula   string
	RelatedInsight string
	TargetBanks    []string
	TargetTables   []string
}

// FilterFromQuery builds a Filter from URL query values. A creationNumber
// that does not parse is ignored.
func FilterFromQuery(q map[string][]string) Filter {
	get := func(k string) string {
		if v := q[k]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}
	f := Filter{
		Subject:        get("subject"),
		InsightID:      get("insightId"),
		Status:         get("status"),
		Type:           get("type"),
		MainCategory:   get("mainCategory"),
		SubCategory:    get("subCategory"),
		DataCategory:   get("dataCategory"),
		LogicFormula:   get("logicFormula"),
		RelatedInsight: get("relatedInsight"),
		TargetBanks:    nonEmpty(q["targetBanks"]),
		TargetTables:   nonEmpty(q["targetTables"]),
	}
	if n, err := strconv.Atoi(get("creationNumber")); err == nil {
		f.CreationNumber = n
	}
	return f
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (f Filter) where() *WhereBuilder {
	wb := NewWhereBuilder()
	if f.CreationNumber != 0 {
		wb.Add("creation_number", f.CreationNumber)
	}
	wb.AddLike("subject", f.Subject)
	wb.AddLike("insight_id", f.InsightID)
	wb.Add("status", f.Status)
	wb.Add("type", f.Type)
	wb.Add("main_category", f.MainCategory)
	wb.AddLike("sub_category", f.SubCategory)
	wb.Add("data_category", f.DataCategory)
	wb.AddLike("logic_formula", f.LogicFormula)
	wb.AddLike("related_insight", f.RelatedInsight)
	wb.AddAnyOf("target_banks", f.TargetBanks)
	wb.AddAnyOf("target_tables", f.TargetTables)
	return wb
}

// WhereBuilder assembles a parameterized PostgreSQL WHERE clause.
type WhereBuilder struct {
	conditions []string
	args       []any
	argIndex   int
}

// NewWhereBuilder returns an empty builder whose first placeholder is $1.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{argIndex: 1}
}

// Add appends "col = $n". Empty strings are skipped.
func (wb *WhereBuilder) Add(col string, val any) {
	if s, ok := val.(string); ok && s == "" {
		return
	}
	wb.push(fmt.Sprintf("%s = $%d", col, wb.argIndex), val)
}

// AddLike appends a substring match on col. Empty values are skipped.
func (wb *WhereBuilder) AddLike(col, val string) {
	if val == "" {
		return
	}
	wb.push(fmt.Sprintf("%s LIKE $%d", col, wb.argIndex), "%"+escapeLike(val)+"%")
}

// AddAnyOf appends a match on a jsonb string array column holding at least
// one of values. An empty list is skipped.
func (wb *WhereBuilder) AddAnyOf(col string, values []string) {
	if len(values) == 0 {
		return
	}
	wb.push(fmt.Sprintf("%s ?| $%d::text[]", col, wb.argIndex), values)
}

func (wb *WhereBuilder) push(cond string, arg any) {
	wb.conditions = append(wb.conditions, cond)
	wb.args = append(wb.args, arg)
	wb.argIndex++
}

// Build returns the clause with a leading space, or "" and nil args when
// nothing was added.
func (wb *WhereBuilder) Build() (string, []any) {
	if len(wb.conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(wb.conditions, " AND "), wb.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
