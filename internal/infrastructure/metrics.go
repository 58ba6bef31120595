package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics holds the service's instruments
type BusinessMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	StoreFetchDuration metric.Float64Histogram
	StoreErrors        metric.Int64Counter

	CacheHits   metric.Int64Counter
	CacheMisses metric.Int64Counter

	DashboardComputations metric.Int64Counter
	WorkflowTransitions   metric.Int64Counter

	WebSocketConnections metric.Int64UpDownCounter
}

// CreateBusinessMetrics creates the service instruments on meter
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	m := &BusinessMetrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.StoreFetchDuration, err = meter.Float64Histogram(
		"store_fetch_duration_seconds",
		metric.WithDescription("Row store fetch duration per sheet"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.StoreErrors, err = meter.Int64Counter(
		"store_errors_total",
		metric.WithDescription("Total number of failed row store calls"),
	); err != nil {
		return nil, err
	}

	if m.CacheHits, err = meter.Int64Counter(
		"sheet_cache_hits_total",
		metric.WithDescription("Total number of sheet snapshot cache hits"),
	); err != nil {
		return nil, err
	}

	if m.CacheMisses, err = meter.Int64Counter(
		"sheet_cache_misses_total",
		metric.WithDescription("Total number of sheet snapshot cache misses"),
	); err != nil {
		return nil, err
	}

	if m.DashboardComputations, err = meter.Int64Counter(
		"dashboard_computations_total",
		metric.WithDescription("Total number of dashboard reports computed"),
	); err != nil {
		return nil, err
	}

	if m.WorkflowTransitions, err = meter.Int64Counter(
		"workflow_transitions_total",
		metric.WithDescription("Total number of workflow stage transitions"),
	); err != nil {
		return nil, err
	}

	if m.WebSocketConnections, err = meter.Int64UpDownCounter(
		"websocket_connections",
		metric.WithDescription("Number of open websocket connections"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordStoreFetch records one row store call for a sheet
func (m *BusinessMetrics) RecordStoreFetch(ctx context.Context, sheet string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
		m.StoreErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("sheet", sheet)))
	}
	m.StoreFetchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("sheet", sheet),
		attribute.String("status", status),
	))
}

// RecordCacheLookup counts a sheet cache hit or miss
func (m *BusinessMetrics) RecordCacheLookup(ctx context.Context, sheet string, hit bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("sheet", sheet))
	if hit {
		m.CacheHits.Add(ctx, 1, attrs)
		return
	}
	m.CacheMisses.Add(ctx, 1, attrs)
}

// RecordDashboard counts a computed dashboard report
func (m *BusinessMetrics) RecordDashboard(ctx context.Context, filtered bool) {
	if m == nil {
		return
	}
	m.DashboardComputations.Add(ctx, 1, metric.WithAttributes(attribute.Bool("filtered", filtered)))
}

// RecordTransition counts a workflow transition for a stage
func (m *BusinessMetrics) RecordTransition(ctx context.Context, stage, action string) {
	if m == nil {
		return
	}
	m.WorkflowTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("action", action),
	))
}

// RecordHTTPRequest records one served HTTP request
func (m *BusinessMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordWebSocketConnection moves the open connection gauge by delta
func (m *BusinessMetrics) RecordWebSocketConnection(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.WebSocketConnections.Add(ctx, delta)
}
