// Package config loads the study configuration from defaults, an optional
// YAML file, and environment variables, in that order of precedence
// (environment wins).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"carstudy/internal/fixedwidth"
)

// EnvPrefix is the prefix for environment variable overrides, e.g.
// CARSTUDY_STUDY_WINDOW=3.
const EnvPrefix = "CARSTUDY"

// Config is the complete application configuration.
type Config struct {
	Data    DataConfig    `yaml:"data" envconfig:"DATA"`
	Study   StudyConfig   `yaml:"study" envconfig:"STUDY"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// DataConfig locates the source files and describes the price file layout.
type DataConfig struct {
	// Dir holds <tic>_prc.dat and <tic>_rec.csv for every ticker.
	Dir string `yaml:"dir" envconfig:"DIR" validate:"required"`
	// TickersFile lists one ticker symbol per line; its order drives panel
	// column order and output order.
	TickersFile string `yaml:"tickers_file" envconfig:"TICKERS_FILE" validate:"required"`
	// MarketFile is the market-factor CSV (Date + mkt columns).
	MarketFile string `yaml:"market_file" envconfig:"MARKET_FILE" validate:"required"`
	// PriceLayout describes the fixed-width price file columns in source
	// order. Defaults to the published README layout.
	PriceLayout []LayoutField `yaml:"price_layout" validate:"required,dive"`
}

// LayoutField is one fixed-width column: name, exact character width, and
// declared type.
type LayoutField struct {
	Name  string `yaml:"name" validate:"required"`
	Width int    `yaml:"width" validate:"gt=0"`
	Type  string `yaml:"type" validate:"oneof=float64 int64 datetime64"`
}

// StudyConfig holds the event-study parameters.
type StudyConfig struct {
	// Window is the event-window half-width in calendar days.
	Window int `yaml:"window" envconfig:"WINDOW" validate:"gte=0"`
	// TopFirms is the number of most-active firms retained per ticker.
	TopFirms int `yaml:"top_firms" envconfig:"TOP_FIRMS" validate:"gt=0"`
	// SkipBadTickers logs and excludes a ticker whose files are missing or
	// malformed instead of failing the whole run.
	SkipBadTickers bool `yaml:"skip_bad_tickers" envconfig:"SKIP_BAD_TICKERS"`
	// MaxConcurrency bounds the number of tickers processed in parallel.
	MaxConcurrency int `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY" validate:"gt=0"`
}

// OutputConfig names the result files, all created under Dir.
type OutputConfig struct {
	Dir          string `yaml:"dir" envconfig:"DIR" validate:"required"`
	CARFile      string `yaml:"car_file" envconfig:"CAR_FILE" validate:"required"`
	SummaryFile  string `yaml:"summary_file" envconfig:"SUMMARY_FILE" validate:"required"`
	WorkbookFile string `yaml:"workbook_file" envconfig:"WORKBOOK_FILE" validate:"required"`
}

// LoggingConfig controls the slog logger.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Default returns the configuration defaults: the published price layout,
// a 2-day half-width window, and the top 30 firms.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir:         "data",
			TickersFile: "TICKERS.txt",
			MarketFile:  filepath.Join("data", "ff_daily.csv"),
			PriceLayout: DefaultPriceLayout(),
		},
		Study: StudyConfig{
			Window:         2,
			TopFirms:       30,
			SkipBadTickers: false,
			MaxConcurrency: 4,
		},
		Output: OutputConfig{
			Dir:          "output",
			CARFile:      "cars.csv",
			SummaryFile:  "car_summary.csv",
			WorkbookFile: "car_study.xlsx",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "text",
			Output:   "console",
			FilePath: filepath.Join("logs", "carstudy.log"),
		},
	}
}

// DefaultPriceLayout returns the README column layout of the price DAT
// files, in source order.
func DefaultPriceLayout() []LayoutField {
	return []LayoutField{
		{Name: "low", Width: 16, Type: "float64"},
		{Name: "adjClose", Width: 14, Type: "float64"},
		{Name: "volume", Width: 9, Type: "int64"},
		{Name: "date", Width: 11, Type: "datetime64"},
		{Name: "open", Width: 12, Type: "float64"},
		{Name: "close", Width: 10, Type: "float64"},
	}
}

// Load builds the configuration: defaults, overlaid by the YAML file at
// path (if path is non-empty and the file exists), overlaid by CARSTUDY_*
// environment variables, then validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read config file %s: %w", path, err)
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if len(cfg.Data.PriceLayout) == 0 {
		cfg.Data.PriceLayout = DefaultPriceLayout()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration, including that the price layout
// converts to a usable fixed-width layout.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	layout, err := c.Layout()
	if err != nil {
		return err
	}
	return layout.Validate()
}

// Layout converts the configured price columns to a fixedwidth.Layout.
func (c *Config) Layout() (fixedwidth.Layout, error) {
	fields := make([]fixedwidth.Field, 0, len(c.Data.PriceLayout))
	for _, f := range c.Data.PriceLayout {
		var kind fixedwidth.Kind
		switch f.Type {
		case "float64":
			kind = fixedwidth.KindFloat
		case "int64":
			kind = fixedwidth.KindInt
		case "datetime64":
			kind = fixedwidth.KindDate
		default:
			return fixedwidth.Layout{}, fmt.Errorf("price layout field %q: unknown type %q", f.Name, f.Type)
		}
		fields = append(fields, fixedwidth.Field{Name: f.Name, Width: f.Width, Kind: kind})
	}
	return fixedwidth.Layout{Fields: fields}, nil
}

// PricePath returns the price file path for a ticker: <dir>/<tic>_prc.dat.
func (c *Config) PricePath(ticker string) string {
	return filepath.Join(c.Data.Dir, ticker+"_prc.dat")
}

// RecPath returns the recommendation file path for a ticker:
// <dir>/<tic>_rec.csv.
func (c *Config) RecPath(ticker string) string {
	return filepath.Join(c.Data.Dir, ticker+"_rec.csv")
}
