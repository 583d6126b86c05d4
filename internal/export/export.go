// Package export renders entity tables as downloadable CSV and Excel
// files. It works off already-fetched data only; it never calls the
// backend itself.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"autoadmin/internal/view"

	"github.com/xuri/excelize/v2"
)

// Filename builds a timestamped download name, e.g.
// "users_export_2025-06-15_12-30-00.csv".
func Filename(prefix, ext string) string {
	return fmt.Sprintf("%s_export_%s.%s", prefix, time.Now().Format("2006-01-02_15-04-05"), ext)
}

// WriteCSV streams a table as CSV: one header row, then one row per
// entity. Badge cells export their text only.
func WriteCSV(w io.Writer, t view.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("export: write csv header: %w", err)
	}
	for _, row := range t.Rows {
		record := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			record[i] = cell.Text
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export: write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: flush csv: %w", err)
	}
	return nil
}

// WriteXLSX streams a table as a single-sheet Excel workbook.
func WriteXLSX(w io.Writer, t view.Table, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("export: create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, column := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, column)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for r, row := range t.Rows {
		for c, cell := range row.Cells {
			name, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheetName, name, cell.Text)
		}
	}

	for i := range t.Columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheetName, col, col, 20)
	}

	_ = f.DeleteSheet("Sheet1")

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}
