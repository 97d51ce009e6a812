package table

import (
	"strings"
	"unicode"
)

// SnakeCaseColumns returns a copy of t with header names normalized to
// snake_case: camelCase boundaries become underscores, runs of
// non-alphanumeric characters collapse to a single underscore, and
// everything is lowercased. Row data is untouched.
func SnakeCaseColumns(t Table) Table {
	out := t.Clone()
	for i, col := range out.Columns {
		out.Columns[i] = snakeCase(col)
	}
	return out
}

// DropEmptyColumns returns a copy of t without columns whose cells are
// all empty (after trimming whitespace). A table with no rows keeps all
// its columns: nothing proves them empty.
func DropEmptyColumns(t Table) Table {
	if t.NumRows() == 0 {
		return t.Clone()
	}
	var keep []int
	for col := range t.Columns {
		for _, row := range t.Rows {
			if strings.TrimSpace(row[col]) != "" {
				keep = append(keep, col)
				break
			}
		}
	}
	return t.selectColumns(keep)
}

// DropConstantColumns returns a copy of t without columns holding a
// single distinct value across all rows. A table with no rows keeps all
// its columns.
func DropConstantColumns(t Table) Table {
	if t.NumRows() == 0 {
		return t.Clone()
	}
	var keep []int
	for col := range t.Columns {
		first := t.Rows[0][col]
		for _, row := range t.Rows[1:] {
			if row[col] != first {
				keep = append(keep, col)
				break
			}
		}
	}
	return t.selectColumns(keep)
}

func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && needsBoundary(runes, i) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteByte('_')
		}
	}

	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return strings.Trim(out, "_")
}

// needsBoundary reports whether an underscore belongs before the upper
// rune at i: after a lower/digit ("fooBar"), or at the end of an
// acronym followed by a lower rune ("HTTPServer" -> "http_server").
func needsBoundary(runes []rune, i int) bool {
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
		return true
	}
	return false
}
