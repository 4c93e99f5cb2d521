package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/flightboard/pkg/observability"
	"github.com/Sumatoshi-tech/flightboard/pkg/plotpage"
	"github.com/Sumatoshi-tech/flightboard/pkg/server"
)

// shutdownGrace bounds how long in-flight requests may finish after a signal.
const shutdownGrace = 10 * time.Second

// NewServeCommand creates the HTTP dashboard command.
func NewServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive dashboard over HTTP",
		Long: `Serve the dashboard page with a report type and year selector.

Endpoints:
  GET /                 dashboard page (?kind=performance|delay&year=2005..2020)
  GET /api/report       report output as JSON (same parameters, both required)
  GET /api/years        report kinds and selectable years
  GET /healthz /readyz  liveness and readiness
  GET /metrics          Prometheus metrics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}

func runServe(cmd *cobra.Command, addr string) error {
	e, err := setup(cmd, observability.ModeServe)
	if err != nil {
		return err
	}
	defer e.close()

	if addr == "" {
		addr = e.cfg.Server.Addr
	}

	promHandler, promProvider, err := observability.PrometheusHandler()
	if err != nil {
		return err
	}

	red, err := observability.NewREDMetrics(promProvider.Meter("github.com/Sumatoshi-tech/flightboard"))
	if err != nil {
		return err
	}

	theme, err := plotpage.ParseTheme(e.cfg.Render.Theme)
	if err != nil {
		return err
	}

	handler := server.NewHandler(e.ds, server.Options{Title: e.cfg.Render.Title, Theme: theme}, server.Deps{
		Logger:         e.providers.Logger,
		Tracer:         e.providers.Tracer,
		Metrics:        red,
		MetricsHandler: promHandler,
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	httpServer := &http.Server{
		Handler:      handler,
		ReadTimeout:  e.cfg.Server.ReadTimeout,
		WriteTimeout: e.cfg.Server.WriteTimeout,
		IdleTimeout:  e.cfg.Server.IdleTimeout,
	}

	return serveUntilDone(cmd.Context(), httpServer, ln, e)
}

// serveUntilDone serves on ln until ctx ends, then shuts down gracefully.
func serveUntilDone(ctx context.Context, httpServer *http.Server, ln net.Listener, e *env) error {
	serveErr := make(chan error, 1)

	go func() {
		serveErr <- httpServer.Serve(ln)
	}()

	e.providers.Logger.InfoContext(ctx, "dashboard listening",
		"addr", ln.Addr().String(),
		"records", e.ds.Len(),
		"years", e.ds.Years(),
	)

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	e.providers.Logger.Info("dashboard shutting down")

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
