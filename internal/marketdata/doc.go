// Package marketdata loads the study's source files: the ticker list, the
// per-ticker fixed-width price files, the per-ticker recommendation CSVs,
// and the market-factor series.
//
// All loaders are single-pass bulk reads over local trusted files. A missing
// or malformed file is a fatal error for that ticker's contribution and is
// surfaced with ticker, file, and line context; it is never retried or
// silently swallowed.
package marketdata
