package catalog

import (
	"context"
	"fmt"
)

// Search returns tables matching query in their names or description,
// followed by tables owning a column whose name matches. Each table appears
// once, at the position it was first seen. An empty query returns an empty
// result without touching the database.
func (s *Store) Search(ctx context.Context, query string) ([]DataTable, error) {
	if query == "" {
		return []DataTable{}, nil
	}
	pattern := "%" + query + "%"

	byTable, err := s.queryTables(ctx, `SELECT `+tableColumns+`
		FROM data_tables
		WHERE table_logical_name LIKE ?
		   OR table_physical_name LIKE ?
		   OR table_description LIKE ?`,
		pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search tables: %w", err)
	}

	byColumn, err := s.queryTables(ctx, `SELECT `+tableColumns+`
		FROM data_tables
		WHERE id IN (
			SELECT table_id FROM data_columns
			WHERE column_logical_name LIKE ?
			   OR column_physical_name LIKE ?
		)`,
		pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search columns: %w", err)
	}

	return mergeByID(byTable, byColumn), nil
}

// mergeByID concatenates sets and drops repeated ids. A repeated id keeps
// its first position but takes the later value.
func mergeByID(sets ...[]DataTable) []DataTable {
	pos := make(map[int64]int)
	out := []DataTable{}
	for _, set := range sets {
		for _, t := range set {
			if i, ok := pos[t.ID]; ok {
				out[i] = t
				continue
			}
			pos[t.ID] = len(out)
			out = append(out, t)
		}
	}
	return out
}
