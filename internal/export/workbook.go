package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kilnworks/carbondash/internal/pipeline"
)

// Workbook writes a single XLSX file with one sheet per view.
func Workbook(path string, t *pipeline.Trend, cs *pipeline.CrossSection, b *pipeline.Breakdown) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheets := []struct {
		name  string
		table viewTable
	}{
		{"Trend", trendTable(t)},
		{"Scatter", scatterTable(cs)},
		{"Breakdown", breakdownTable(b)},
	}

	if err := f.SetSheetName("Sheet1", sheets[0].name); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, s := range sheets[1:] {
		if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("add sheet %s: %w", s.name, err)
		}
	}

	for _, s := range sheets {
		if err := writeSheet(f, s.name, s.table); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t viewTable) error {
	if len(t.header) > 0 {
		last, err := excelize.ColumnNumberToName(len(t.header))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", last, 16); err != nil {
			return err
		}
	}
	for i, h := range t.header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range t.rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
