// Package config loads flightboard settings from .flightboard.yaml,
// FLIGHTBOARD_* environment variables and built-in defaults.
package config

import "time"

// Dataset defaults.
const (
	DefaultDatasetPath   = "airline_data.csv"
	DefaultDatasetFormat = "auto"
	DefaultDatasetTable  = "flights"
)

// Report defaults. Zero values leave the selection unset.
const (
	DefaultReportKind = ""
	DefaultReportYear = 0
)

// Render defaults.
const (
	DefaultRenderTheme = ThemeLight
	DefaultRenderTitle = "US Domestic Airline Flights Performance"
)

// Server defaults.
const (
	DefaultServerAddr         = ":8080"
	DefaultServerReadTimeout  = 10 * time.Second
	DefaultServerWriteTimeout = 30 * time.Second
	DefaultServerIdleTimeout  = 2 * time.Minute
)

// Logging defaults.
const (
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = LogFormatText
)

// Telemetry defaults.
const (
	DefaultTelemetryEndpoint    = ""
	DefaultTelemetryInsecure    = false
	DefaultTelemetrySampleRatio = 1.0
)
