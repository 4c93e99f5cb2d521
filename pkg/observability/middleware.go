package observability

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter

	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.status == 0 {
		sw.status = code
	}

	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(buf []byte) (int, error) {
	if sw.status == 0 {
		sw.status = http.StatusOK
	}

	n, err := sw.ResponseWriter.Write(buf)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}

	return n, nil
}

func (sw *statusWriter) code() int {
	if sw.status == 0 {
		return http.StatusOK
	}

	return sw.status
}

// HTTPMiddleware opens a server span per request named "METHOD /path" and,
// when metrics is non-nil, records the request as op "http METHOD /path".
func HTTPMiddleware(tracer trace.Tracer, metrics *REDMetrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		route := hr.Method + " " + hr.URL.Path
		parent := otel.GetTextMapPropagator().Extract(hr.Context(), propagation.HeaderCarrier(hr.Header))

		ctx, span := tracer.Start(parent, route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(hr.Method),
				attribute.String("http.target", hr.URL.Path),
			),
		)
		defer span.End()

		start := time.Now()
		sw := &statusWriter{ResponseWriter: rw}

		next.ServeHTTP(sw, hr.WithContext(ctx))

		code := sw.code()
		span.SetAttributes(semconv.HTTPResponseStatusCode(code))

		status := "ok"
		if code >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(code))

			status = statusError
		}

		if metrics != nil {
			metrics.RecordRequest(ctx, "http "+route, status, time.Since(start))
		}
	})
}
