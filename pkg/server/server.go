// Package server serves the flight dashboard and its JSON API over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/flightboard/pkg/flights"
	"github.com/Sumatoshi-tech/flightboard/pkg/observability"
	"github.com/Sumatoshi-tech/flightboard/pkg/plotpage"
	"github.com/Sumatoshi-tech/flightboard/pkg/report"
	"github.com/Sumatoshi-tech/flightboard/pkg/textreport"
)

// Query parameters.
const (
	paramKind = "kind"
	paramYear = "year"
)

// ErrEmptyDataset makes /readyz fail for a dataset without records.
var ErrEmptyDataset = errors.New("dataset has no records")

// Deps holds injectable dependencies for the handler.
// Zero-value fields use production defaults.
type Deps struct {
	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Tracer is an optional OTel tracer for per-request spans. Nil disables tracing.
	Tracer trace.Tracer

	// Metrics is an optional RED metrics recorder. Nil disables request metrics.
	Metrics *observability.REDMetrics

	// MetricsHandler is served on /metrics when set.
	MetricsHandler http.Handler
}

// Options configure the rendered dashboard.
type Options struct {
	Title string
	Theme plotpage.Theme
}

type handler struct {
	ds     *flights.Dataset
	opts   Options
	logger *slog.Logger
}

// NewHandler returns the dashboard handler. Every request computes its own
// selection, so concurrent viewers never share state.
func NewHandler(ds *flights.Dataset, o Options, deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tracer := deps.Tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	h := &handler{ds: ds, opts: o, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.dashboard)
	mux.HandleFunc("GET /api/report", h.apiReport)
	mux.HandleFunc("GET /api/years", h.apiYears)
	mux.Handle("GET /healthz", observability.HealthHandler())
	mux.Handle("GET /readyz", observability.ReadyHandler(h.ready))

	if deps.MetricsHandler != nil {
		mux.Handle("GET /metrics", deps.MetricsHandler)
	}

	return observability.HTTPMiddleware(tracer, deps.Metrics, mux)
}

// ParseSelection reads kind and year query parameters. Absent parameters
// leave the field unset; malformed ones are errors.
func ParseSelection(q url.Values) (report.Selection, error) {
	var sel report.Selection

	if raw := q.Get(paramKind); raw != "" {
		kind, err := report.ParseKind(raw)
		if err != nil {
			return sel, err
		}

		sel.Kind = kind
	}

	if raw := q.Get(paramYear); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || !report.ValidYear(year) {
			return sel, fmt.Errorf("%w: %q", report.ErrInvalidYear, raw)
		}

		sel.Year = year
	}

	return sel, nil
}

func (h *handler) dashboard(rw http.ResponseWriter, hr *http.Request) {
	sel, err := ParseSelection(hr.URL.Query())
	if err != nil {
		http.Error(rw, err.Error(), http.StatusBadRequest)

		return
	}

	o := plotpage.DashboardOptions{
		Title:  h.opts.Title,
		Theme:  h.opts.Theme,
		Action: "/",
	}

	page := plotpage.PlaceholderPage(sel, o)

	if sel.Complete() {
		out, runErr := h.run(hr.Context(), sel)
		if runErr != nil {
			http.Error(rw, runErr.Error(), http.StatusInternalServerError)

			return
		}

		page = plotpage.Dashboard(out, o)
	}

	var buf bytes.Buffer

	renderErr := page.Render(&buf)
	if renderErr != nil {
		h.logger.ErrorContext(hr.Context(), "render dashboard", "error", renderErr)
		http.Error(rw, "render failed", http.StatusInternalServerError)

		return
	}

	rw.Header().Set("Content-Type", "text/html; charset=utf-8")

	_, writeErr := buf.WriteTo(rw)
	if writeErr != nil {
		h.logger.DebugContext(hr.Context(), "write dashboard", "error", writeErr)
	}
}

func (h *handler) apiReport(rw http.ResponseWriter, hr *http.Request) {
	sel, err := ParseSelection(hr.URL.Query())
	if err == nil {
		err = sel.Validate()
	}

	if err != nil {
		http.Error(rw, err.Error(), http.StatusBadRequest)

		return
	}

	out, err := h.run(hr.Context(), sel)
	if err != nil {
		http.Error(rw, err.Error(), http.StatusInternalServerError)

		return
	}

	h.writeJSON(rw, hr, out)
}

// yearsResponse is the /api/years body.
type yearsResponse struct {
	Kinds        []string `json:"kinds"`
	MinYear      int      `json:"min_year"`
	MaxYear      int      `json:"max_year"`
	DatasetYears []int    `json:"dataset_years"`
}

func (h *handler) apiYears(rw http.ResponseWriter, hr *http.Request) {
	kinds := make([]string, 0, len(report.Kinds()))
	for _, k := range report.Kinds() {
		kinds = append(kinds, k.String())
	}

	h.writeJSON(rw, hr, yearsResponse{
		Kinds:        kinds,
		MinYear:      report.MinYear,
		MaxYear:      report.MaxYear,
		DatasetYears: h.ds.Years(),
	})
}

func (h *handler) run(ctx context.Context, sel report.Selection) (report.Output, error) {
	out, err := report.Run(h.ds, sel)
	if err != nil {
		return report.Output{}, fmt.Errorf("run %s: %w", sel, err)
	}

	h.logger.DebugContext(ctx, "report computed", "kind", sel.Kind.String(), "year", sel.Year, "records", out.Records)

	return out, nil
}

func (h *handler) writeJSON(rw http.ResponseWriter, hr *http.Request, v any) {
	var buf bytes.Buffer

	err := textreport.WriteJSON(&buf, v)
	if err != nil {
		h.logger.ErrorContext(hr.Context(), "encode response", "error", err)
		http.Error(rw, "encode failed", http.StatusInternalServerError)

		return
	}

	rw.Header().Set("Content-Type", "application/json")

	_, writeErr := buf.WriteTo(rw)
	if writeErr != nil {
		h.logger.DebugContext(hr.Context(), "write response", "error", writeErr)
	}
}

func (h *handler) ready(context.Context) error {
	if h.ds == nil || h.ds.Len() == 0 {
		return ErrEmptyDataset
	}

	return nil
}
