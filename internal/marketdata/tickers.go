package marketdata

import (
	"fmt"
	"os"
	"strings"
)

// ReadTickers reads a ticker list file, one symbol per line, and returns the
// symbols lower-cased and trimmed, with blank lines dropped. The order of
// the returned slice defines column order in the price panel and row order
// in the final CAR table.
func ReadTickers(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ticker list %s: %w", path, err)
	}

	var tickers []string
	for _, line := range strings.Split(string(data), "\n") {
		tic := strings.ToLower(strings.TrimSpace(line))
		if tic == "" {
			continue
		}
		tickers = append(tickers, tic)
	}
	return tickers, nil
}
