package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/flightboard/pkg/config"
	"github.com/Sumatoshi-tech/flightboard/pkg/observability"
	"github.com/Sumatoshi-tech/flightboard/pkg/report"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".flightboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func validConfig() config.Config {
	return config.Config{
		Dataset: config.DatasetConfig{Path: "flights.csv", Format: "csv"},
		Render:  config.RenderConfig{Theme: config.ThemeDark},
		Logging: config.LoggingConfig{Level: "info", Format: config.LogFormatText},
	}
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultDatasetPath, cfg.Dataset.Path)
	assert.Equal(t, config.DefaultDatasetFormat, cfg.Dataset.Format)
	assert.Equal(t, config.DefaultDatasetTable, cfg.Dataset.Table)
	assert.Equal(t, config.DefaultRenderTheme, cfg.Render.Theme)
	assert.Equal(t, config.DefaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, config.DefaultServerReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, config.DefaultLoggingFormat, cfg.Logging.Format)
	assert.InDelta(t, config.DefaultTelemetrySampleRatio, cfg.Telemetry.SampleRatio, 1e-9)
	assert.Equal(t, report.Selection{}, cfg.Selection())
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `dataset:
  path: data/flights.db
  format: sqlite
  table: ontime
report:
  kind: OPT2
  year: 2019
render:
  theme: dark
server:
  addr: "127.0.0.1:9000"
  write_timeout: 45s
logging:
  level: debug
  format: json
telemetry:
  otlp_endpoint: "collector:4317"
  otlp_headers: "api-key=abc"
  insecure: true
  sample_ratio: 0.25
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "data/flights.db", cfg.Dataset.Path)
	assert.Equal(t, "ontime", cfg.Dataset.Table)
	assert.Equal(t, report.Selection{Kind: report.KindDelay, Year: 2019}, cfg.Selection())
	assert.Equal(t, 45*time.Second, cfg.Server.WriteTimeout)

	obs := cfg.Observability(observability.ModeServe, "1.0.0")
	assert.Equal(t, observability.ModeServe, obs.Mode)
	assert.Equal(t, "collector:4317", obs.OTLPEndpoint)
	assert.Equal(t, map[string]string{"api-key": "abc"}, obs.OTLPHeaders)
	assert.True(t, obs.OTLPInsecure)
	assert.True(t, obs.LogJSON)
	assert.Equal(t, slog.LevelDebug, obs.LogLevel)
	assert.InDelta(t, 0.25, obs.SampleRatio, 1e-9)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("FLIGHTBOARD_DATASET_PATH", "/srv/flights.json")
	t.Setenv("FLIGHTBOARD_REPORT_YEAR", "2010")

	cfg, err := config.LoadConfig(writeConfig(t, "dataset:\n  path: local.csv\n"))
	require.NoError(t, err)

	assert.Equal(t, "/srv/flights.json", cfg.Dataset.Path)
	assert.Equal(t, 2010, cfg.Report.Year)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, "dataset:\n  path: [broken\n"))
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadConfig_InvalidValue(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "report:\n  year: 1999\n"))
	require.ErrorIs(t, err, config.ErrInvalidReportYear)
	assert.Contains(t, err.Error(), "validate config")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"valid", func(*config.Config) {}, nil},
		{"format", func(c *config.Config) { c.Dataset.Format = "parquet" }, config.ErrInvalidDatasetFormat},
		{"sqlite table", func(c *config.Config) { c.Dataset.Format = "sqlite" }, config.ErrEmptyDatasetTable},
		{"kind", func(c *config.Config) { c.Report.Kind = "weekly" }, config.ErrInvalidReportKind},
		{"year", func(c *config.Config) { c.Report.Year = 2021 }, config.ErrInvalidReportYear},
		{"theme", func(c *config.Config) { c.Render.Theme = "neon" }, config.ErrInvalidTheme},
		{"timeout", func(c *config.Config) { c.Server.IdleTimeout = -time.Second }, config.ErrInvalidTimeout},
		{"level", func(c *config.Config) { c.Logging.Level = "loud" }, config.ErrInvalidLogLevel},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, config.ErrInvalidLogFormat},
		{"ratio", func(c *config.Config) { c.Telemetry.SampleRatio = 1.5 }, config.ErrInvalidSampleRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.want == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, tt.want)
		})
	}
}
