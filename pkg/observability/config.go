// Package observability wires OpenTelemetry tracing and metrics, structured
// slog logging and the HTTP health and scrape endpoints used by every
// flightboard mode.
package observability

import "log/slog"

// AppMode identifies how the binary was launched.
type AppMode string

const (
	// ModeCLI is a one-shot report command.
	ModeCLI AppMode = "cli"
	// ModeMCP is the MCP stdio host.
	ModeMCP AppMode = "mcp"
	// ModeServe is the HTTP dashboard.
	ModeServe AppMode = "serve"
)

const (
	defaultServiceName        = "flightboard"
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability settings.
type Config struct {
	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the version of the running binary.
	ServiceVersion string

	// Environment is the deployment environment, e.g. "production".
	Environment string

	// Mode is stamped on every log record and on the OTel resource.
	Mode AppMode

	// OTLPEndpoint is the OTLP gRPC collector address. Empty disables export.
	OTLPEndpoint string

	// OTLPHeaders are extra gRPC metadata headers for the exporters.
	OTLPHeaders map[string]string

	// OTLPInsecure disables TLS towards the collector.
	OTLPInsecure bool

	// SampleRatio is the root trace sampling ratio. Zero samples everything.
	SampleRatio float64

	// LogLevel is the minimum slog level.
	LogLevel slog.Level

	// LogJSON selects the JSON handler instead of text.
	LogJSON bool

	// ShutdownTimeoutSec bounds the flush on shutdown.
	ShutdownTimeoutSec int
}

// DefaultConfig returns a zero-export configuration for CLI use.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
