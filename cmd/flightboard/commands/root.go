// Package commands implements the flightboard CLI commands.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/flightboard/pkg/config"
	"github.com/Sumatoshi-tech/flightboard/pkg/flights"
	"github.com/Sumatoshi-tech/flightboard/pkg/flights/load"
	"github.com/Sumatoshi-tech/flightboard/pkg/observability"
	"github.com/Sumatoshi-tech/flightboard/pkg/version"
)

const flagConfig = "config"

// NewRootCommand builds the flightboard command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "flightboard",
		Short: "US domestic airline flight performance dashboard",
		Long: `Flightboard aggregates US domestic airline on-time records into
yearly performance and delay reports.

Commands:
  report    Compute one report and print it as text, JSON, YAML or HTML
  serve     Serve the interactive dashboard over HTTP
  mcp       Expose the report controller as MCP tools on stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(flagConfig, "", "config file (default: .flightboard.yaml in . or $HOME)")

	rootCmd.AddCommand(NewReportCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewMCPCommand())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "flightboard %s (commit: %s, built: %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}

// env is the state every command starts from.
type env struct {
	cfg       *config.Config
	providers observability.Providers
	ds        *flights.Dataset
}

// setup loads configuration, starts observability in mode and opens the dataset.
// The caller must call env.close.
func setup(cmd *cobra.Command, mode observability.AppMode) (*env, error) {
	configPath, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("read --%s: %w", flagConfig, err)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	providers, err := observability.InitWithWriter(cfg.Observability(mode, version.Version), cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	format, err := load.ParseFormat(cfg.Dataset.Format)
	if err != nil {
		return nil, err
	}

	ds, err := load.Open(cmd.Context(), cfg.Dataset.Path, load.Options{
		Format: format,
		Table:  cfg.Dataset.Table,
		Logger: providers.Logger,
	})
	if err != nil {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}

		return nil, fmt.Errorf("load dataset: %w", err)
	}

	return &env{cfg: cfg, providers: providers, ds: ds}, nil
}

func (e *env) close() {
	shutdownErr := e.providers.Shutdown(context.Background())
	if shutdownErr != nil {
		e.providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
	}
}
