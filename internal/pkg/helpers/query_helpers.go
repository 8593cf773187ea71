package helpers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// QueryBool parses a boolean query parameter, returning def when absent or malformed
func QueryBool(c *gin.Context, key string, def bool) bool {
	raw, ok := c.GetQuery(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return b
}

// QueryBoolPtr is QueryBool for optional filters: nil means "not filtered"
func QueryBoolPtr(c *gin.Context, key string) *bool {
	raw, ok := c.GetQuery(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &b
}

// SplitList splits a comma separated value, dropping blanks.
// Both the latin and the Persian comma are accepted.
func SplitList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '،'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// NormalizeStatusFilter maps the UI's "all" choice to an empty filter
func NormalizeStatusFilter(status string) string {
	status = strings.TrimSpace(strings.ToLower(status))
	if status == "all" {
		return ""
	}
	return status
}
