package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Sumatoshi-tech/flightboard/pkg/flights/load"
	"github.com/Sumatoshi-tech/flightboard/pkg/observability"
	"github.com/Sumatoshi-tech/flightboard/pkg/report"
)

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config is the top-level configuration.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Report    ReportConfig    `mapstructure:"report"`
	Render    RenderConfig    `mapstructure:"render"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// DatasetConfig locates the flight records.
type DatasetConfig struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"`
	Table  string `mapstructure:"table"`
}

// ReportConfig holds the initial selection. Empty kind or zero year leaves
// that field unset.
type ReportConfig struct {
	Kind string `mapstructure:"kind"`
	Year int    `mapstructure:"year"`
}

// RenderConfig holds dashboard page settings.
type RenderConfig struct {
	Theme string `mapstructure:"theme"`
	Title string `mapstructure:"title"`
}

// ServerConfig holds HTTP server settings for serve mode.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// LoggingConfig holds slog settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	Insecure     bool    `mapstructure:"insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	Environment  string  `mapstructure:"environment"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidDatasetFormat indicates an unknown dataset.format.
	ErrInvalidDatasetFormat = errors.New("dataset.format must be one of auto, csv, json, sqlite")
	// ErrEmptyDatasetTable indicates a missing dataset.table for sqlite sources.
	ErrEmptyDatasetTable = errors.New("dataset.table must be set for sqlite datasets")
	// ErrInvalidReportKind indicates an unknown report.kind.
	ErrInvalidReportKind = errors.New("report.kind must be performance or delay")
	// ErrInvalidReportYear indicates report.year outside the selectable range.
	ErrInvalidReportYear = errors.New("report.year must be between 2005 and 2020")
	// ErrInvalidTheme indicates an unknown render.theme.
	ErrInvalidTheme = errors.New("render.theme must be light or dark")
	// ErrInvalidTimeout indicates a negative server timeout.
	ErrInvalidTimeout = errors.New("server timeouts must be non-negative")
	// ErrInvalidLogLevel indicates an unknown logging.level.
	ErrInvalidLogLevel = errors.New("logging.level must be debug, info, warn or error")
	// ErrInvalidLogFormat indicates an unknown logging.format.
	ErrInvalidLogFormat = errors.New("logging.format must be text or json")
	// ErrInvalidSampleRatio indicates telemetry.sample_ratio outside 0..1.
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	datasetErr := c.validateDataset()
	if datasetErr != nil {
		return datasetErr
	}

	reportErr := c.validateReport()
	if reportErr != nil {
		return reportErr
	}

	if c.Render.Theme != ThemeLight && c.Render.Theme != ThemeDark {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, c.Render.Theme)
	}

	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout < 0 {
		return ErrInvalidTimeout
	}

	return c.validateTelemetry()
}

func (c *Config) validateDataset() error {
	format, err := load.ParseFormat(c.Dataset.Format)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDatasetFormat, c.Dataset.Format)
	}

	if format == load.FormatSQLite && c.Dataset.Table == "" {
		return ErrEmptyDatasetTable
	}

	return nil
}

func (c *Config) validateReport() error {
	if c.Report.Kind != "" {
		_, err := report.ParseKind(c.Report.Kind)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidReportKind, c.Report.Kind)
		}
	}

	if c.Report.Year != 0 && !report.ValidYear(c.Report.Year) {
		return fmt.Errorf("%w: %d", ErrInvalidReportYear, c.Report.Year)
	}

	return nil
}

func (c *Config) validateTelemetry() error {
	_, err := observability.ParseLevel(c.Logging.Level)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	if c.Logging.Format != LogFormatText && c.Logging.Format != LogFormatJSON {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return ErrInvalidSampleRatio
	}

	return nil
}

// Selection returns the initial selection from the report section.
// Validate must have passed.
func (c *Config) Selection() report.Selection {
	kind, err := report.ParseKind(c.Report.Kind)
	if err != nil {
		kind = report.KindUnset
	}

	return report.Selection{Kind: kind, Year: c.Report.Year}
}

// Observability maps the logging and telemetry sections onto an
// observability config for mode.
func (c *Config) Observability(mode observability.AppMode, version string) observability.Config {
	obs := observability.DefaultConfig()
	obs.Mode = mode
	obs.ServiceVersion = version
	obs.Environment = c.Telemetry.Environment
	obs.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	obs.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.OTLPHeaders)
	obs.OTLPInsecure = c.Telemetry.Insecure
	obs.SampleRatio = c.Telemetry.SampleRatio
	obs.LogJSON = c.Logging.Format == LogFormatJSON

	level, err := observability.ParseLevel(c.Logging.Level)
	if err == nil {
		obs.LogLevel = level
	}

	return obs
}
