// Package exporter persists study results: the raw CAR table and the
// mean-CAR summary, as CSV files and as an Excel workbook for researcher
// consumption.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"carstudy/internal/study"
)

// Writer writes study outputs under a single output directory.
type Writer struct {
	outDir string
	logger *slog.Logger
}

// New creates a writer rooted at outDir. A nil logger falls back to
// slog.Default().
func New(outDir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{outDir: outDir, logger: logger}
}

// carHeader is the CAR table column order: one row per (event, ticker).
var carHeader = []string{"event_id", "event_type", "tic", "car"}

// summaryHeader is the by-type summary column order.
var summaryHeader = []string{"event_type", "events", "mean_car"}

// WriteCARCSV writes the concatenated CAR table.
func (w *Writer) WriteCARCSV(cars []study.CAR, filename string) (string, error) {
	records := make([][]string, 0, len(cars))
	for _, car := range cars {
		records = append(records, carRow(car))
	}
	return w.writeCSV(filename, carHeader, records)
}

// WriteSummaryCSV writes the mean-CAR-by-event-type summary.
func (w *Writer) WriteSummaryCSV(summary []study.TypeSummary, filename string) (string, error) {
	records := make([][]string, 0, len(summary))
	for _, s := range summary {
		records = append(records, summaryRow(s))
	}
	return w.writeCSV(filename, summaryHeader, records)
}

func (w *Writer) writeCSV(filename string, header []string, records [][]string) (string, error) {
	path := filepath.Join(w.outDir, filename)
	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("write header to %s: %w", path, err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("write record %d to %s: %w", i, path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush %s: %w", path, err)
	}

	w.logger.Info("wrote CSV file",
		slog.String("path", path),
		slog.Int("records", len(records)))

	return path, nil
}

func carRow(car study.CAR) []string {
	return []string{
		strconv.Itoa(car.EventID),
		string(car.Type),
		car.Ticker,
		strconv.FormatFloat(car.Value, 'f', -1, 64),
	}
}

func summaryRow(s study.TypeSummary) []string {
	return []string{
		string(s.Type),
		strconv.Itoa(s.Events),
		strconv.FormatFloat(s.MeanCAR, 'f', -1, 64),
	}
}
