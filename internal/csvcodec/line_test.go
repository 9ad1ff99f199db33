package csvcodec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"empty line is one empty field", "", []string{""}},
		{"simple", "a,b,c", []string{"a", "b", "c"}},
		{"fields are trimmed", " a , b ,c ", []string{"a", "b", "c"}},
		{"trailing comma", "a,b,", []string{"a", "b", ""}},
		{"quoted comma is literal", `"a,b",c`, []string{"a,b", "c"}},
		{"quotes are not emitted", `"x"`, []string{"x"}},
		{"doubled quote inside span", `"say ""hi""",z`, []string{`say "hi"`, "z"}},
		{"quote mid-field toggles", `ab"c,d"e,f`, []string{"abc,de", "f"}},
		{"unterminated span consumes rest", `a,"b,c,d`, []string{"a", "b,c,d"}},
		{"bare json array splits", `["A","B"]`, []string{"[A", "B]"}},
		{"quoted json array", `"[""A"",""B""]"`, []string{`["A","B"]`}},
		{"japanese", `顧客,"口座,残高"`, []string{"顧客", "口座,残高"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLine(tt.line))
		})
	}
}

func TestParseLine_FieldCountIsUnquotedCommasPlusOne(t *testing.T) {
	lines := []string{
		"a,b,c",
		`"a,b",c,"d,e,f"`,
		`,,,`,
		`"unterminated, with, commas`,
	}
	want := []int{3, 3, 4, 1}

	for i, line := range lines {
		assert.Len(t, ParseLine(line), want[i], "line %q", line)
	}
}

func TestParseLine_RoundTrip(t *testing.T) {
	records := [][]string{
		{"a", "b", "c"},
		{"with,comma", "plain", ""},
		{"顧客マスタ", "CUSTOMER_MST", "説明, 詳細"},
		{`embedded "quote"`, "x"},
		{"[]", `["A","B"]`},
	}

	for _, fields := range records {
		cells := make([]string, len(fields))
		for i, f := range fields {
			cells[i] = EncodeScalar(f)
		}
		line := JoinQuoted(cells)
		assert.Equal(t, fields, ParseLine(line), "line %q", line)
	}
}

func TestJoinQuoted(t *testing.T) {
	got := JoinQuoted([]string{"a", `b""c`, ""})
	assert.Equal(t, `"a","b""c",""`, got)
	assert.Equal(t, 3, len(ParseLine(got)))
	assert.True(t, strings.HasPrefix(got, `"a"`))
}
