package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX renders rows into the first sheet of a new workbook
func WriteXLSX[T any](w io.Writer, rows []T, cols []Column[T], opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rowIdx := 1

	setRow := func(values []string) error {
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
		rowIdx++
		return nil
	}

	if opts.IncludeHeaders {
		headers := make([]string, len(cols))
		for i, c := range cols {
			headers[i] = c.Header()
		}
		if err := setRow(headers); err != nil {
			return err
		}
	}

	for _, row := range rows {
		values := make([]string, len(cols))
		for i, c := range cols {
			values[i] = c.Value(row)
		}
		if err := setRow(values); err != nil {
			return err
		}
	}

	if opts.RightToLeft {
		rtl := true
		if err := f.SetSheetView(sheet, -1, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
			return fmt.Errorf("failed to set sheet direction: %w", err)
		}
	}

	return f.Write(w)
}
