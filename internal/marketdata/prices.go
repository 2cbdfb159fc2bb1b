package marketdata

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"carstudy/internal/fixedwidth"
)

// Field names the price layout must declare. AdjClose is the series the
// panel carries; the remaining columns ride along on each record.
const (
	FieldLow      = "low"
	FieldOpen     = "open"
	FieldClose    = "close"
	FieldAdjClose = "adjClose"
	FieldVolume   = "volume"
	FieldDate     = "date"
)

// PriceRecord is one trading day for one ticker, decoded from a fixed-width
// price file.
type PriceRecord struct {
	Date     time.Time
	Low      float64
	Open     float64
	Close    float64
	AdjClose float64
	Volume   int64
}

// MissingFileError reports a required per-ticker source file that does not
// exist. It aborts that ticker's pipeline; the caller decides whether the
// run as a whole continues.
type MissingFileError struct {
	Ticker string
	Path   string
}

// Error implements the error interface.
func (e *MissingFileError) Error() string {
	return fmt.Sprintf("ticker %s: required file missing: %s", e.Ticker, e.Path)
}

// ReadPriceFile parses one ticker's fixed-width price file into records
// sorted ascending by date. The layout must declare the low, open, close,
// adjClose, volume, and date columns. A non-existent file yields a
// *MissingFileError; an undecodable line yields an error wrapping
// *fixedwidth.ParseError with ticker, file, and line number attached.
func ReadPriceFile(path, ticker string, layout fixedwidth.Layout) ([]PriceRecord, error) {
	if err := validatePriceLayout(layout); err != nil {
		return nil, fmt.Errorf("price layout: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingFileError{Ticker: ticker, Path: path}
		}
		return nil, fmt.Errorf("ticker %s: read %s: %w", ticker, path, err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\r\n"), "\n")
	records := make([]PriceRecord, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		rec, err := layout.ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("ticker %s: %s:%d: %w", ticker, path, i+1, err)
		}

		low, _ := rec.Float(FieldLow)
		open, _ := rec.Float(FieldOpen)
		cls, _ := rec.Float(FieldClose)
		adj, _ := rec.Float(FieldAdjClose)
		vol, _ := rec.Int(FieldVolume)
		records = append(records, PriceRecord{
			Date:     rec.Date,
			Low:      low,
			Open:     open,
			Close:    cls,
			AdjClose: adj,
			Volume:   vol,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	slog.Debug("parsed price file",
		slog.String("ticker", ticker),
		slog.String("path", path),
		slog.Int("records", len(records)))

	return records, nil
}

func validatePriceLayout(layout fixedwidth.Layout) error {
	if err := layout.Validate(); err != nil {
		return err
	}

	required := map[string]fixedwidth.Kind{
		FieldLow:      fixedwidth.KindFloat,
		FieldOpen:     fixedwidth.KindFloat,
		FieldClose:    fixedwidth.KindFloat,
		FieldAdjClose: fixedwidth.KindFloat,
		FieldVolume:   fixedwidth.KindInt,
		FieldDate:     fixedwidth.KindDate,
	}
	for _, f := range layout.Fields {
		want, ok := required[f.Name]
		if !ok {
			return fmt.Errorf("unexpected field %q", f.Name)
		}
		if f.Kind != want {
			return fmt.Errorf("field %q must be %s, got %s", f.Name, want, f.Kind)
		}
		delete(required, f.Name)
	}
	if len(required) > 0 {
		names := make([]string, 0, len(required))
		for name := range required {
			names = append(names, name)
		}
		sort.Strings(names)
		return fmt.Errorf("missing fields: %s", strings.Join(names, ", "))
	}
	return nil
}
