package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"carstudy/internal/study"
)

const (
	carSheet     = "CARs"
	summarySheet = "Summary"
)

// WriteWorkbook writes the CAR table and the by-type summary into one Excel
// workbook, one sheet each.
func (w *Writer) WriteWorkbook(cars []study.CAR, summary []study.TypeSummary, filename string) (string, error) {
	path := filepath.Join(w.outDir, filename)
	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", carSheet); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return "", fmt.Errorf("create summary sheet: %w", err)
	}

	if err := writeSheetRow(f, carSheet, 1, carHeader); err != nil {
		return "", err
	}
	for i, car := range cars {
		row := []interface{}{car.EventID, string(car.Type), car.Ticker, car.Value}
		if err := writeSheetValues(f, carSheet, i+2, row); err != nil {
			return "", err
		}
	}

	if err := writeSheetRow(f, summarySheet, 1, summaryHeader); err != nil {
		return "", err
	}
	for i, s := range summary {
		row := []interface{}{string(s.Type), s.Events, s.MeanCAR}
		if err := writeSheetValues(f, summarySheet, i+2, row); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook %s: %w", path, err)
	}

	w.logger.Info("wrote workbook",
		slog.String("path", path),
		slog.Int("car_rows", len(cars)),
		slog.Int("summary_rows", len(summary)))

	return path, nil
}

func writeSheetRow(f *excelize.File, sheet string, row int, values []string) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return writeSheetValues(f, sheet, row, cells)
}

func writeSheetValues(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("cell name for %s row %d col %d: %w", sheet, row, col+1, err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
