package middleware

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"indentdesk/internal/infrastructure"
)

// Telemetry wraps each request in a server span and records the HTTP
// instruments of BusinessMetrics. Either argument may be nil.
func Telemetry(tracer trace.Tracer, metrics *infrastructure.BusinessMetrics) func(next http.Handler) http.Handler {
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.MeterName)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			ctx, span := tracer.Start(ctx, fmt.Sprintf("%s %s", r.Method, r.URL.Path),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.URLPathKey.String(r.URL.Path),
					semconv.UserAgentOriginalKey.String(r.UserAgent()),
					semconv.ClientAddressKey.String(r.RemoteAddr),
				),
			)
			defer span.End()

			if metrics != nil && metrics.HTTPActiveRequests != nil {
				metrics.HTTPActiveRequests.Add(ctx, 1)
				defer metrics.HTTPActiveRequests.Add(ctx, -1)
			}

			ww := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(ww, r.WithContext(ctx))

			// The route pattern is only known once chi has routed the request
			route := routePattern(r)
			span.SetName(fmt.Sprintf("%s %s", r.Method, route))
			span.SetAttributes(
				semconv.HTTPRouteKey.String(route),
				semconv.HTTPResponseStatusCodeKey.Int(ww.statusCode),
				semconv.HTTPResponseBodySizeKey.Int64(ww.bytesWritten),
			)
			if ww.statusCode >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(ww.statusCode))
			}

			metrics.RecordHTTPRequest(ctx, r.Method, route, ww.statusCode, time.Since(start))
		})
	}
}

// statusRecorder captures the status code and body size
type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
	wroteHeader  bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Hijack supports the websocket upgrade
func (rw *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	rw.wroteHeader = true
	return hijacker.Hijack()
}

// routePattern extracts the chi route pattern, keeping metric cardinality
// bounded
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
