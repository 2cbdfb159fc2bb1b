package marketdata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carstudy/internal/fixedwidth"
)

func testLayout() fixedwidth.Layout {
	return fixedwidth.Layout{
		Fields: []fixedwidth.Field{
			{Name: FieldLow, Width: 16, Kind: fixedwidth.KindFloat},
			{Name: FieldAdjClose, Width: 14, Kind: fixedwidth.KindFloat},
			{Name: FieldVolume, Width: 9, Kind: fixedwidth.KindInt},
			{Name: FieldDate, Width: 11, Kind: fixedwidth.KindDate},
			{Name: FieldOpen, Width: 12, Kind: fixedwidth.KindFloat},
			{Name: FieldClose, Width: 10, Kind: fixedwidth.KindFloat},
		},
	}
}

// datLine formats one price row under testLayout's widths.
func datLine(low, adjClose float64, volume int64, date string, open, cls float64) string {
	return fmt.Sprintf("%16.6f%14.6f%9d%-11s%12.6f%10.4f", low, adjClose, volume, date, open, cls)
}

func writePriceFile(t *testing.T, dir, ticker string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, ticker+"_prc.dat")
	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadPriceFile(t *testing.T) {
	dir := t.TempDir()
	// Out of order on purpose: the reader must sort ascending by date.
	path := writePriceFile(t, dir, "aapl", []string{
		datLine(115.0, 116.4, 42_110_000, "2020-10-06", 115.9, 116.5),
		datLine(113.5, 113.1, 30_000_000, "2020-10-05", 113.9, 113.2),
	})

	records, err := ReadPriceFile(path, "aapl", testLayout())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, time.Date(2020, 10, 5, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, time.Date(2020, 10, 6, 0, 0, 0, 0, time.UTC), records[1].Date)
	assert.InDelta(t, 113.1, records[0].AdjClose, 1e-9)
	assert.InDelta(t, 116.4, records[1].AdjClose, 1e-9)
	assert.Equal(t, int64(30_000_000), records[0].Volume)
	assert.InDelta(t, 113.5, records[0].Low, 1e-9)
	assert.InDelta(t, 113.9, records[0].Open, 1e-9)
	assert.InDelta(t, 113.2, records[0].Close, 1e-9)
}

func TestReadPriceFileMissing(t *testing.T) {
	_, err := ReadPriceFile(filepath.Join(t.TempDir(), "tsla_prc.dat"), "tsla", testLayout())
	require.Error(t, err)

	var merr *MissingFileError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "tsla", merr.Ticker)
}

func TestReadPriceFileParseError(t *testing.T) {
	dir := t.TempDir()
	path := writePriceFile(t, dir, "aapl", []string{
		datLine(113.5, 113.1, 30_000_000, "2020-10-05", 113.9, 113.2),
		"garbage line that cannot be decoded",
	})

	_, err := ReadPriceFile(path, "aapl", testLayout())
	require.Error(t, err)

	var perr *fixedwidth.ParseError
	require.True(t, errors.As(err, &perr))
	// Context carries ticker, file, and line for diagnosis.
	assert.Contains(t, err.Error(), "aapl")
	assert.Contains(t, err.Error(), path+":2")
}

func TestReadPriceFileSkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := writePriceFile(t, dir, "aapl", []string{
		datLine(113.5, 113.1, 30_000_000, "2020-10-05", 113.9, 113.2),
		"",
		datLine(115.0, 116.4, 42_110_000, "2020-10-06", 115.9, 116.5),
	})

	records, err := ReadPriceFile(path, "aapl", testLayout())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestReadPriceFileRejectsBadLayout(t *testing.T) {
	layout := fixedwidth.Layout{Fields: []fixedwidth.Field{
		{Name: FieldLow, Width: 16, Kind: fixedwidth.KindFloat},
		{Name: FieldDate, Width: 11, Kind: fixedwidth.KindDate},
	}}

	_, err := ReadPriceFile("unused.dat", "aapl", layout)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing fields")
}
