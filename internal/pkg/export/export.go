// Package export renders typed records as CSV or XLSX downloads.
package export

import (
	"fmt"
	"strings"
)

// Format is a download format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps the format query value, defaulting to CSV
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Extension is the file extension for f
func (f Format) Extension() string {
	return string(f)
}

// ContentType is the MIME type for f
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Column maps one field of T to a labelled, formatted cell
type Column[T any] struct {
	ID    string
	Label string
	Value func(T) string
}

// Header returns the label, falling back to the column id
func (c Column[T]) Header() string {
	if c.Label != "" {
		return c.Label
	}
	return c.ID
}

// Options controls the rendered layout
type Options struct {
	IncludeHeaders bool
	// RightToLeft flips the XLSX sheet direction
	RightToLeft bool
}

// SelectColumns returns the columns named by ids in the requested order;
// no ids selects every column.
func SelectColumns[T any](all []Column[T], ids []string) ([]Column[T], error) {
	if len(ids) == 0 {
		return all, nil
	}

	byID := make(map[string]Column[T], len(all))
	for _, c := range all {
		byID[c.ID] = c
	}

	selected := make([]Column[T], 0, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown export column %q", id)
		}
		selected = append(selected, c)
	}
	return selected, nil
}

// ColumnIDs lists the ids of cols
func ColumnIDs[T any](cols []Column[T]) []string {
	ids := make([]string, len(cols))
	for i, c := range cols {
		ids[i] = c.ID
	}
	return ids
}

// Filename builds "{kind}_{YYYY-MM-DD}.{ext}"
func Filename(kind string, date string, f Format) string {
	return fmt.Sprintf("%s_%s.%s", kind, date, f.Extension())
}
