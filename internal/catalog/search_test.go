package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(tables []DataTable) []int64 {
	out := make([]int64, len(tables))
	for i, t := range tables {
		out[i] = t.ID
	}
	return out
}

func TestSearch_EmptyQueryDoesNotTouchStore(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.db.Close())

	got, err := s.Search(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearch_UnionOfTableAndColumnMatches(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tblT, err := s.CreateTable(ctx, sampleTable("T_TABLE", "ティー", "foo description"))
	require.NoError(t, err)
	tblU, err := s.CreateTable(ctx, sampleTable("U_TABLE", "ユー", "unrelated"))
	require.NoError(t, err)
	_, err = s.CreateColumn(ctx, sampleColumn(tblU.ID, "COL_X", "foo"))
	require.NoError(t, err)
	_, err = s.CreateTable(ctx, sampleTable("V_TABLE", "ブイ", "nothing here"))
	require.NoError(t, err)

	got, err := s.Search(ctx, "foo")
	require.NoError(t, err)
	assert.Equal(t, []int64{tblT.ID, tblU.ID}, ids(got))
}

func TestSearch_DeduplicatesTableMatchingBothWays(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tbl, err := s.CreateTable(ctx, sampleTable("BALANCE", "残高", "口座残高"))
	require.NoError(t, err)
	_, err = s.CreateColumn(ctx, sampleColumn(tbl.ID, "BALANCE_AMT", "残高金額"))
	require.NoError(t, err)
	_, err = s.CreateColumn(ctx, sampleColumn(tbl.ID, "PREV_BALANCE", "前日残高"))
	require.NoError(t, err)

	got, err := s.Search(ctx, "残高")
	require.NoError(t, err)
	assert.Equal(t, []int64{tbl.ID}, ids(got))
}

func TestSearch_ASCIICaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tbl, err := s.CreateTable(ctx, sampleTable("customer_mst", "顧客", ""))
	require.NoError(t, err)

	got, err := s.Search(ctx, "CUSTOMER")
	require.NoError(t, err)
	assert.Equal(t, []int64{tbl.ID}, ids(got))

	got, err = s.Search(ctx, "nomatch")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMergeByID(t *testing.T) {
	a := []DataTable{{ID: 1, TableLogicalName: "one"}, {ID: 2, TableLogicalName: "two"}}
	b := []DataTable{{ID: 3, TableLogicalName: "three"}, {ID: 1, TableLogicalName: "one-late"}}

	got := mergeByID(a, b)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{1, 2, 3}, ids(got))
	assert.Equal(t, "one-late", got[0].TableLogicalName, "last-seen value wins")
}
