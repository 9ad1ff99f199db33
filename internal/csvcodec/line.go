package csvcodec

import "strings"

// ParseLine splits one physical CSV line into raw field strings.
//
// A quote toggles the quoted-span flag and is not emitted. A comma outside a
// quoted span ends the current field; inside a span it is literal content.
// Within a quoted span a doubled quote ("") yields one literal quote. Each
// field is trimmed of surrounding whitespace, and the final accumulator is
// always emitted, so the result holds one more element than the number of
// unquoted commas.
//
// There is no error path. An unterminated quoted span consumes the rest of
// the line as part of the last field.
func ParseLine(line string) []string {
	fields := make([]string, 0, strings.Count(line, string(Separator))+1)

	var field strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == QuoteChar:
			if inQuotes && i+1 < len(line) && line[i+1] == QuoteChar {
				field.WriteByte(QuoteChar)
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == Separator && !inQuotes:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteByte(c)
		}
	}

	return append(fields, strings.TrimSpace(field.String()))
}

// JoinQuoted builds a line from cells that are already escaped, wrapping
// each in quotes.
func JoinQuoted(cells []string) string {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = Quote(c)
	}
	return strings.Join(quoted, string(Separator))
}
