package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".flightboard"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix, e.g. FLIGHTBOARD_DATASET_PATH.
const envPrefix = "FLIGHTBOARD"

// LoadConfig loads configuration from file, env vars and defaults.
// A non-empty configPath must exist. Otherwise .flightboard.yaml is searched
// in the working directory and $HOME, and a missing file means defaults.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
	}

	readErr := v.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := v.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

// applyDefaults registers every key so AutomaticEnv can override it.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("dataset.path", DefaultDatasetPath)
	v.SetDefault("dataset.format", DefaultDatasetFormat)
	v.SetDefault("dataset.table", DefaultDatasetTable)

	v.SetDefault("report.kind", DefaultReportKind)
	v.SetDefault("report.year", DefaultReportYear)

	v.SetDefault("render.theme", DefaultRenderTheme)
	v.SetDefault("render.title", DefaultRenderTitle)

	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.read_timeout", DefaultServerReadTimeout)
	v.SetDefault("server.write_timeout", DefaultServerWriteTimeout)
	v.SetDefault("server.idle_timeout", DefaultServerIdleTimeout)

	v.SetDefault("logging.level", DefaultLoggingLevel)
	v.SetDefault("logging.format", DefaultLoggingFormat)

	v.SetDefault("telemetry.otlp_endpoint", DefaultTelemetryEndpoint)
	v.SetDefault("telemetry.otlp_headers", "")
	v.SetDefault("telemetry.insecure", DefaultTelemetryInsecure)
	v.SetDefault("telemetry.sample_ratio", DefaultTelemetrySampleRatio)
	v.SetDefault("telemetry.environment", "")
}
