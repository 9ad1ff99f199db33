// Package csvcodec implements the small CSV dialect used by the catalog and
// insight import/export paths.
//
// It is deliberately not a general CSV library: records are flat, carry a
// fixed field list, never contain embedded newlines, and some fields hold
// JSON-encoded string arrays. The codec covers three concerns:
//
//   - Scalar cells: [EncodeScalar] renders a value as text with doubled quotes.
//   - Array cells: [EncodeArray] and [DecodeArray] move []string values in and
//     out of JSON text embedded in a single cell.
//   - Lines: [ParseLine] splits one physical line into raw field strings.
package csvcodec

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// QuoteChar is the field quote delimiter.
const QuoteChar = '"'

// Separator is the field separator.
const Separator = ','

// BOM is the byte-order mark prepended to exported files so spreadsheet
// tools detect UTF-8.
const BOM = "\uFEFF"

// EncodeScalar converts a scalar value to its cell text.
// nil (including typed nil pointers) becomes the empty string and every
// embedded quote is doubled. The caller wraps the result in quotes.
func EncodeScalar(v any) string {
	s, ok := scalarText(v)
	if !ok {
		return ""
	}
	return escapeQuotes(s)
}

// EncodeArray serializes values as JSON array text and doubles embedded
// quotes. A nil or empty slice encodes as [].
func EncodeArray(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	b, err := json.Marshal(values)
	if err != nil {
		// []string always marshals; keep the cell well-formed regardless.
		return "[]"
	}
	return escapeQuotes(string(b))
}

// DecodeArray parses a cell holding a JSON string array.
// One optional layer of surrounding quotes is stripped first. Malformed
// cells decode to an empty slice instead of failing.
func DecodeArray(cell string) []string {
	cell = strings.TrimSpace(cell)
	if cell == "" || cell == `""` {
		return []string{}
	}
	if len(cell) >= 2 && cell[0] == QuoteChar && cell[len(cell)-1] == QuoteChar {
		cell = cell[1 : len(cell)-1]
	}

	var out []string
	if err := json.Unmarshal([]byte(cell), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

// Quote wraps already-encoded cell text in quote delimiters.
func Quote(cell string) string {
	return string(QuoteChar) + cell + string(QuoteChar)
}

// Text renders a scalar value as plain text without any escaping.
// nil becomes the empty string.
func Text(v any) string {
	s, _ := scalarText(v)
	return s
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

// scalarText returns the textual form of v and false when v is nil.
func scalarText(v any) (string, bool) {
	if v == nil {
		return "", false
	}

	switch val := v.(type) {
	case string:
		return val, true
	case *string:
		if val == nil {
			return "", false
		}
		return *val, true
	case fmt.Stringer:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "", false
		}
		return val.String(), true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	return fmt.Sprint(rv.Interface()), true
}
