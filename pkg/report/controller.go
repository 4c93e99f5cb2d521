package report

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/flightboard/pkg/flights"
	"github.com/Sumatoshi-tech/flightboard/pkg/observability"
)

const (
	// opRun is the RED metrics operation and span name of one pipeline run.
	opRun = "report.run"

	statusOK    = "ok"
	statusError = "error"
)

// Handler receives the output of every completed run.
type Handler func(ctx context.Context, out Output)

// ControllerDeps holds injectable dependencies for the controller.
// Zero-value fields use production defaults.
type ControllerDeps struct {
	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Tracer is an optional OTel tracer for per-run spans. Nil disables tracing.
	Tracer trace.Tracer

	// Metrics is an optional RED metrics recorder. Nil disables run metrics.
	Metrics *observability.REDMetrics
}

// Controller owns the selection state and republishes the five output slots
// whenever an update leaves a complete selection. Every mutation holds one
// mutex for the whole run, so runs never overlap and observers always see a
// whole output set.
type Controller struct {
	mu        sync.Mutex
	ds        *flights.Dataset
	sel       Selection
	out       Output
	published bool
	handlers  []Handler

	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *observability.REDMetrics
}

// NewController creates a controller over the read-only dataset ds.
func NewController(ds *flights.Dataset, deps ControllerDeps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tracer := deps.Tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	return &Controller{
		ds:      ds,
		logger:  logger,
		tracer:  tracer,
		metrics: deps.Metrics,
	}
}

// Dataset returns the dataset the controller reads from.
func (c *Controller) Dataset() *flights.Dataset {
	return c.ds
}

// OnSelectionComplete registers h. Handlers fire in registration order after
// each completed run, while the controller lock is held, and must not call
// back into the controller.
func (c *Controller) OnSelectionComplete(h Handler) {
	if h == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.handlers = append(c.handlers, h)
}

// SetReportKind updates the kind. An invalid kind is stored, leaves the
// selection incomplete and returns ErrInvalidKind.
func (c *Controller) SetReportKind(ctx context.Context, kind Kind) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sel.Kind = kind
	c.logger.DebugContext(ctx, "report kind set", "kind", kind.String())

	if !kind.Valid() {
		return fmt.Errorf("set report kind: %w: %s", ErrInvalidKind, kind)
	}

	return c.refresh(ctx)
}

// SetYear updates the year. A year outside MinYear..MaxYear is stored, leaves
// the selection incomplete and returns ErrInvalidYear.
func (c *Controller) SetYear(ctx context.Context, year int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sel.Year = year
	c.logger.DebugContext(ctx, "year set", "year", year)

	if !ValidYear(year) {
		return fmt.Errorf("set year: %w: %d", ErrInvalidYear, year)
	}

	return c.refresh(ctx)
}

// Select replaces both fields in one update, so a complete pair triggers a
// single run. Validation follows SetReportKind and SetYear.
func (c *Controller) Select(ctx context.Context, sel Selection) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sel = sel
	c.logger.DebugContext(ctx, "selection set", "kind", sel.Kind.String(), "year", sel.Year)

	if !sel.Kind.Valid() {
		return fmt.Errorf("select: %w: %s", ErrInvalidKind, sel.Kind)
	}

	if !ValidYear(sel.Year) {
		return fmt.Errorf("select: %w: %d", ErrInvalidYear, sel.Year)
	}

	return c.refresh(ctx)
}

// ClearReportKind unsets the kind. Published outputs are kept.
func (c *Controller) ClearReportKind(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sel.Kind = KindUnset
	c.logger.DebugContext(ctx, "report kind cleared")
}

// ClearYear unsets the year. Published outputs are kept.
func (c *Controller) ClearYear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sel.Year = 0
	c.logger.DebugContext(ctx, "year cleared")
}

// Selection returns the current selection, complete or not.
func (c *Controller) Selection() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.sel
}

// Current returns the last published output. The boolean is false until the
// first complete selection has been computed.
func (c *Controller) Current() (Output, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.out, c.published
}

// refresh runs the pipeline when the selection is complete. Callers hold mu.
func (c *Controller) refresh(ctx context.Context) error {
	if !c.sel.Complete() {
		c.logger.DebugContext(ctx, "selection incomplete, outputs kept", "selection", c.sel.String())

		return nil
	}

	ctx = observability.ContextWithLogAttrs(ctx,
		slog.String("report.kind", c.sel.Kind.String()),
		slog.Int("report.year", c.sel.Year),
	)

	ctx, span := c.tracer.Start(ctx, opRun,
		trace.WithAttributes(
			attribute.String("report.kind", c.sel.Kind.String()),
			attribute.Int("report.year", c.sel.Year),
		),
	)
	defer span.End()

	if c.metrics != nil {
		decInflight := c.metrics.TrackInflight(ctx, opRun)
		defer decInflight()
	}

	start := time.Now()

	out, err := Run(c.ds, c.sel)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.record(ctx, statusError, time.Since(start))

		return fmt.Errorf("run %s: %w", c.sel, err)
	}

	elapsed := time.Since(start)

	c.out = out
	c.published = true

	span.SetAttributes(attribute.Int("report.records", out.Records))
	c.record(ctx, statusOK, elapsed)
	c.logger.InfoContext(ctx, "report computed",
		"records", out.Records,
		"duration", elapsed,
	)

	for _, h := range c.handlers {
		h(ctx, out)
	}

	return nil
}

func (c *Controller) record(ctx context.Context, status string, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}

	c.metrics.RecordRequest(ctx, opRun, status, elapsed)
}
