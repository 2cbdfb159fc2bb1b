package marketdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Recommendation is one analyst action for one ticker. EventDay is the
// timestamp truncated to its calendar date.
type Recommendation struct {
	Timestamp time.Time
	EventDay  time.Time
	Firm      string
	Action    string
}

// DecodeError reports a recommendation file whose header or a row could not
// be decoded. It is confined to one ticker's source file; callers distinguish
// it from run-wide failures with errors.As.
type DecodeError struct {
	Ticker string
	Path   string
	Line   int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("ticker %s: %s:%d: %v", e.Ticker, e.Path, e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// timestampLayouts are the accepted recommendation timestamp formats, tried
// in order.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ReadRecommendations loads one ticker's recommendation CSV. The file must
// carry a header row; the timestamp, firm, and action columns are located by
// case-insensitive header match (timestamp under any of "date", "datetime",
// or "timestamp"). A non-existent file yields a *MissingFileError; a header
// or row that cannot be decoded yields a *DecodeError.
func ReadRecommendations(path, ticker string) ([]Recommendation, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingFileError{Ticker: ticker, Path: path}
		}
		return nil, fmt.Errorf("ticker %s: open %s: %w", ticker, path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &DecodeError{Ticker: ticker, Path: path, Line: 1,
			Err: fmt.Errorf("read header: %w", err)}
	}

	timeCol, firmCol, actionCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date", "datetime", "timestamp":
			if timeCol < 0 {
				timeCol = i
			}
		case "firm":
			firmCol = i
		case "action":
			actionCol = i
		}
	}
	if timeCol < 0 || firmCol < 0 || actionCol < 0 {
		return nil, &DecodeError{Ticker: ticker, Path: path, Line: 1,
			Err: fmt.Errorf("header must contain timestamp, Firm, and Action columns, got %v", header)}
	}

	var recs []Recommendation
	for lineNo := 2; ; lineNo++ {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &DecodeError{Ticker: ticker, Path: path, Line: lineNo, Err: err}
		}
		if len(row) <= timeCol || len(row) <= firmCol || len(row) <= actionCol {
			return nil, &DecodeError{Ticker: ticker, Path: path, Line: lineNo,
				Err: fmt.Errorf("row has %d columns, need at least %d",
					len(row), max(timeCol, firmCol, actionCol)+1)}
		}

		ts, err := parseTimestamp(strings.TrimSpace(row[timeCol]))
		if err != nil {
			return nil, &DecodeError{Ticker: ticker, Path: path, Line: lineNo,
				Err: fmt.Errorf("bad timestamp %q: %w", row[timeCol], err)}
		}

		recs = append(recs, Recommendation{
			Timestamp: ts,
			EventDay:  midnight(ts),
			Firm:      strings.TrimSpace(row[firmCol]),
			Action:    strings.TrimSpace(row[actionCol]),
		})
	}

	slog.Debug("parsed recommendation file",
		slog.String("ticker", ticker),
		slog.String("path", path),
		slog.Int("records", len(recs)))

	return recs, nil
}

func parseTimestamp(text string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, text)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
