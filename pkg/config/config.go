package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/chartdata/pkg/period"
)

// Sentinel validation errors.
var (
	// ErrInvalidMaxItemCount indicates a negative series item limit.
	ErrInvalidMaxItemCount = errors.New("series.max_item_count must be non-negative")
	// ErrInvalidMaxItemAge indicates a negative series age limit.
	ErrInvalidMaxItemAge = errors.New("series.max_item_age must be non-negative")
	// ErrInvalidTimeZone indicates a time zone the system cannot load.
	ErrInvalidTimeZone = errors.New("series.time_zone is not a known location")
	// ErrInvalidAnchor indicates an anchor other than start, middle or end.
	ErrInvalidAnchor = errors.New("series.anchor is not a known anchor")
	// ErrInvalidIntervalWidth indicates a negative fixed interval width.
	ErrInvalidIntervalWidth = errors.New("table.interval_width must be non-negative")
	// ErrInvalidIntervalPosition indicates a position factor outside [0, 1].
	ErrInvalidIntervalPosition = errors.New("table.interval_position must be between 0 and 1")
	// ErrInvalidTheme indicates an unknown render theme.
	ErrInvalidTheme = errors.New("render.theme must be light or dark")
	// ErrInvalidSize indicates a non-positive render width or height.
	ErrInvalidSize = errors.New("render.width and render.height must be positive")
	// ErrInvalidFormat indicates an unknown render format.
	ErrInvalidFormat = errors.New("render.format must be html or png")
	// ErrInvalidLogLevel indicates an unknown log level.
	ErrInvalidLogLevel = errors.New("logging.level must be debug, info, warn or error")
	// ErrInvalidLogFormat indicates an unknown log format.
	ErrInvalidLogFormat = errors.New("logging.format must be text or json")
)

// Config is the top-level configuration. Field tags use mapstructure for
// viper unmarshalling.
type Config struct {
	Series        SeriesConfig        `mapstructure:"series"`
	Table         TableConfig         `mapstructure:"table"`
	Render        RenderConfig        `mapstructure:"render"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// SeriesConfig holds defaults applied to restored time series.
type SeriesConfig struct {
	TimeZone     string `mapstructure:"time_zone"`
	Anchor       string `mapstructure:"anchor"`
	MaxItemCount int    `mapstructure:"max_item_count"`
	MaxItemAge   int64  `mapstructure:"max_item_age"`
}

// TableConfig holds defaults for aligned XY tables.
type TableConfig struct {
	IntervalWidth    float64 `mapstructure:"interval_width"`
	IntervalPosition float64 `mapstructure:"interval_position"`
	AutoPrune        bool    `mapstructure:"auto_prune"`
}

// RenderConfig holds chart export settings.
type RenderConfig struct {
	Theme  string `mapstructure:"theme"`
	Format string `mapstructure:"format"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ObservabilityConfig holds OpenTelemetry and metrics settings.
type ObservabilityConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	Environment  string `mapstructure:"environment"`
	MetricsAddr  string `mapstructure:"metrics_addr"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
}

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	seriesErr := c.validateSeries()
	if seriesErr != nil {
		return seriesErr
	}

	if c.Table.IntervalWidth < 0 {
		return fmt.Errorf("%w: %g", ErrInvalidIntervalWidth, c.Table.IntervalWidth)
	}

	if c.Table.IntervalPosition < 0 || c.Table.IntervalPosition > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidIntervalPosition, c.Table.IntervalPosition)
	}

	renderErr := c.validateRender()
	if renderErr != nil {
		return renderErr
	}

	return c.validateLogging()
}

func (c *Config) validateSeries() error {
	if c.Series.MaxItemCount < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxItemCount, c.Series.MaxItemCount)
	}

	if c.Series.MaxItemAge < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxItemAge, c.Series.MaxItemAge)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	_, err := c.Anchor()

	return err
}

func (c *Config) validateRender() error {
	switch strings.ToLower(c.Render.Theme) {
	case "light", "dark":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTheme, c.Render.Theme)
	}

	switch strings.ToLower(c.Render.Format) {
	case "html", "png":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Render.Format)
	}

	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Render.Width, c.Render.Height)
	}

	return nil
}

func (c *Config) validateLogging() error {
	if _, err := c.LogLevel(); err != nil {
		return err
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}
}

// Location resolves the configured time zone. An empty name is UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.Series.TimeZone == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(c.Series.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidTimeZone, c.Series.TimeZone, err)
	}

	return loc, nil
}

// Anchor parses the configured x anchor for time-series collections.
func (c *Config) Anchor() (period.Anchor, error) {
	anchor, err := period.ParseAnchor(c.Series.Anchor)
	if err != nil {
		return period.Start, fmt.Errorf("%w: %w", ErrInvalidAnchor, err)
	}

	return anchor, nil
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	return level, nil
}
