package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/flightboard/pkg/mcp"
	"github.com/Sumatoshi-tech/flightboard/pkg/observability"
	"github.com/Sumatoshi-tech/flightboard/pkg/report"
	"github.com/Sumatoshi-tech/flightboard/pkg/version"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes the report controller as tools that AI agents can
discover and invoke:
  - flightboard_select: Set the report kind and/or year and read the five output slots
  - flightboard_years: List report kinds, the selectable years and the dataset years

Logs go to stderr; stdout carries the protocol.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, observability.ModeMCP)
			if err != nil {
				return err
			}
			defer e.close()

			red, err := observability.NewREDMetrics(e.providers.Meter)
			if err != nil {
				return err
			}

			ctrl := report.NewController(e.ds, report.ControllerDeps{
				Logger:  e.providers.Logger,
				Tracer:  e.providers.Tracer,
				Metrics: red,
			})

			if sel := e.cfg.Selection(); sel.Complete() {
				selectErr := ctrl.Select(cmd.Context(), sel)
				if selectErr != nil {
					return selectErr
				}
			}

			srv := mcp.NewServer(ctrl, mcp.ServerDeps{
				Logger:  e.providers.Logger,
				Metrics: red,
				Tracer:  e.providers.Tracer,
				Version: version.Version,
			})

			return srv.Run(cmd.Context())
		},
	}
}
