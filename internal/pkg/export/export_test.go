package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type item struct {
	Name   string
	Level  string
	Active bool
}

var itemColumns = []Column[item]{
	{ID: "name", Label: "نام", Value: func(i item) string { return i.Name }},
	{ID: "level", Label: "سطح", Value: func(i item) string { return Label(EducationLevelLabels, i.Level) }},
	{ID: "active", Value: func(i item) string { return Bool(i.Active) }},
}

func TestRenderCSV_LineAndFieldCounts(t *testing.T) {
	rows := []item{
		{Name: "a", Level: "beginner", Active: true},
		{Name: "b", Level: "advanced"},
		{Name: "c", Level: "unknown"},
	}
	cols, err := SelectColumns(itemColumns, []string{"name", "level"})
	require.NoError(t, err)

	out := RenderCSV(rows, cols, Options{IncludeHeaders: true})
	require.True(t, strings.HasPrefix(out, BOM))

	lines := strings.Split(strings.TrimPrefix(out, BOM), "\n")
	require.Len(t, lines, len(rows)+1)
	for _, line := range lines {
		fields := strings.Split(line, ",")
		assert.Len(t, fields, len(cols))
		for _, f := range fields {
			assert.True(t, strings.HasPrefix(f, `"`) && strings.HasSuffix(f, `"`), f)
		}
	}
	assert.Equal(t, `"نام","سطح"`, lines[0])
	assert.Equal(t, `"a","مبتدی"`, lines[1])
	assert.Equal(t, `"c","unknown"`, lines[3])
}

func TestRenderCSV_WithoutHeaders(t *testing.T) {
	out := RenderCSV([]item{{Name: "x"}}, itemColumns, Options{})
	assert.Equal(t, BOM+`"x","","خیر"`, out)
}

func TestRenderCSV_HeaderFallsBackToID(t *testing.T) {
	cols, err := SelectColumns(itemColumns, []string{"active"})
	require.NoError(t, err)
	out := RenderCSV(nil, cols, Options{IncludeHeaders: true})
	assert.Equal(t, BOM+`"active"`, out)
}

func TestEscapeField(t *testing.T) {
	assert.Equal(t, `"say ""hi"""`, EscapeField(`say "hi"`))
	assert.Equal(t, `"line one line two"`, EscapeField("line one\r\nline two"))
	assert.Equal(t, `""`, EscapeField(""))
}

func TestSelectColumns(t *testing.T) {
	all, err := SelectColumns(itemColumns, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	picked, err := SelectColumns(itemColumns, []string{"active", "name"})
	require.NoError(t, err)
	assert.Equal(t, []string{"active", "name"}, ColumnIDs(picked))

	_, err = SelectColumns(itemColumns, []string{"missing"})
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)

	assert.Equal(t, "education_2025-01-02.csv", Filename("education", "2025-01-02", FormatCSV))
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	rows := []item{{Name: "a", Level: "beginner"}, {Name: "b", Level: "intermediate"}}
	require.NoError(t, WriteXLSX(&buf, rows, itemColumns, Options{IncludeHeaders: true, RightToLeft: true}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"نام", "سطح", "active"}, got[0])
	assert.Equal(t, []string{"b", "متوسط", "خیر"}, got[2])
}
