package marketdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// MarketFactors is the market-wide daily return series, keyed by calendar
// date. It is read once and shared read-only across every ticker's
// abnormal-return computation.
type MarketFactors map[time.Time]float64

// ReadMarketFactors loads the market-factor CSV. The file must carry a
// header with a Date column and a mkt column (matched case-insensitively);
// any other columns are ignored.
func ReadMarketFactors(path string) (MarketFactors, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open market factor file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read market factor header %s: %w", path, err)
	}

	dateCol, mktCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			dateCol = i
		case "mkt":
			mktCol = i
		}
	}
	if dateCol < 0 || mktCol < 0 {
		return nil, fmt.Errorf("market factor file %s: header must contain Date and mkt columns, got %v", path, header)
	}

	factors := make(MarketFactors)
	for lineNo := 2; ; lineNo++ {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("market factor file %s:%d: %w", path, lineNo, err)
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(row[dateCol]))
		if err != nil {
			return nil, fmt.Errorf("market factor file %s:%d: bad date %q: %w", path, lineNo, row[dateCol], err)
		}
		mkt, err := strconv.ParseFloat(strings.TrimSpace(row[mktCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("market factor file %s:%d: bad mkt value %q: %w", path, lineNo, row[mktCol], err)
		}
		factors[midnight(date)] = mkt
	}

	return factors, nil
}

// midnight truncates a timestamp to its UTC calendar date so map lookups by
// date compare exactly.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
