package export

import (
	"io"
	"strings"
)

// BOM makes spreadsheet tools read the file as UTF-8
const BOM = "\uFEFF"

// EscapeField quotes a cell, doubling inner quotes and flattening line breaks
func EscapeField(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, `"`, `""`)
	return `"` + s + `"`
}

// RenderCSV returns the CSV text for rows. Every field is quoted and rows are
// joined with "\n" without a trailing newline.
func RenderCSV[T any](rows []T, cols []Column[T], opts Options) string {
	lines := make([]string, 0, len(rows)+1)

	if opts.IncludeHeaders {
		fields := make([]string, len(cols))
		for i, c := range cols {
			fields[i] = EscapeField(c.Header())
		}
		lines = append(lines, strings.Join(fields, ","))
	}

	for _, row := range rows {
		fields := make([]string, len(cols))
		for i, c := range cols {
			fields[i] = EscapeField(c.Value(row))
		}
		lines = append(lines, strings.Join(fields, ","))
	}

	return BOM + strings.Join(lines, "\n")
}

// WriteCSV renders rows and writes them to w
func WriteCSV[T any](w io.Writer, rows []T, cols []Column[T], opts Options) error {
	_, err := io.WriteString(w, RenderCSV(rows, cols, opts))
	return err
}
