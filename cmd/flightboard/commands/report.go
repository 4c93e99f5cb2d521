package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/flightboard/pkg/config"
	"github.com/Sumatoshi-tech/flightboard/pkg/observability"
	"github.com/Sumatoshi-tech/flightboard/pkg/plotpage"
	"github.com/Sumatoshi-tech/flightboard/pkg/report"
	"github.com/Sumatoshi-tech/flightboard/pkg/textreport"
)

// formatHTML selects the static dashboard page.
const formatHTML = "html"

// reportFlags holds the report command flags.
type reportFlags struct {
	kind    string
	year    int
	format  string
	output  string
	maxRows int
	noColor bool
}

// NewReportCommand creates the one-shot report command.
func NewReportCommand() *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute a yearly report",
		Long: `Compute one report for a kind and a year and print it.

The kind and year default to the report section of the config file.
Formats: text (tables), json, yaml, html (static dashboard page).`,
		Example: `  flightboard report --kind performance --year 2016
  flightboard report --kind delay --year 2010 --format html -o delay-2010.html`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.kind, "kind", "k", "", "report kind: performance or delay")
	cmd.Flags().IntVarP(&flags.year, "year", "y", 0, "report year (2005-2020)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "text", "output format: text, json, yaml, html")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().IntVar(&flags.maxRows, "max-rows", 0, "rows printed per table in text format (0 = all)")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "disable colored text output")

	return cmd
}

func runReport(cmd *cobra.Command, flags reportFlags) error {
	format := strings.ToLower(flags.format)

	var textFormat textreport.Format

	if format != formatHTML {
		parsed, err := textreport.ParseFormat(format)
		if err != nil {
			return err
		}

		textFormat = parsed
	}

	e, err := setup(cmd, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer e.close()

	sel, err := reportSelection(e.cfg, flags)
	if err != nil {
		return err
	}

	red, err := observability.NewREDMetrics(e.providers.Meter)
	if err != nil {
		return err
	}

	ctrl := report.NewController(e.ds, report.ControllerDeps{
		Logger:  e.providers.Logger,
		Tracer:  e.providers.Tracer,
		Metrics: red,
	})

	w, closeOutput, err := openOutput(cmd, flags.output)
	if err != nil {
		return err
	}
	defer closeOutput()

	var writeErr error

	ctrl.OnSelectionComplete(func(_ context.Context, out report.Output) {
		if format == formatHTML {
			writeErr = dashboardPage(e.cfg, out).Render(w)

			return
		}

		writeErr = textreport.Write(w, out, textFormat, textreport.Options{
			MaxRows: flags.maxRows,
			NoColor: flags.noColor,
		})
	})

	selectErr := ctrl.Select(cmd.Context(), sel)
	if selectErr != nil {
		return selectErr
	}

	return writeErr
}

// reportSelection overlays the flags on the configured selection.
func reportSelection(cfg *config.Config, flags reportFlags) (report.Selection, error) {
	sel := cfg.Selection()

	if flags.kind != "" {
		kind, err := report.ParseKind(flags.kind)
		if err != nil {
			return sel, err
		}

		sel.Kind = kind
	}

	if flags.year != 0 {
		sel.Year = flags.year
	}

	if sel.Kind == report.KindUnset || sel.Year == 0 {
		return sel, fmt.Errorf("%w: pass --kind and --year or set them in the config file",
			report.ErrIncompleteSelection)
	}

	return sel, nil
}

func dashboardPage(cfg *config.Config, out report.Output) *plotpage.Page {
	theme, err := plotpage.ParseTheme(cfg.Render.Theme)
	if err != nil {
		theme = plotpage.ThemeLight
	}

	return plotpage.Dashboard(out, plotpage.DashboardOptions{Title: cfg.Render.Title, Theme: theme})
}

// openOutput returns stdout or the created file at path.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}

	return f, func() {
		closeErr := f.Close()
		if closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
			fmt.Fprintf(cmd.ErrOrStderr(), "close %s: %v\n", path, closeErr)
		}
	}, nil
}
