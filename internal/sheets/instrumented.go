package sheets

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"indentdesk/internal/infrastructure"
	"indentdesk/pkg/contracts/domain"
)

// Instrumented wraps a Store with spans and store metrics
type Instrumented struct {
	Store
	metrics *infrastructure.BusinessMetrics
	tracer  trace.Tracer
}

// NewInstrumented decorates store. metrics may be nil.
func NewInstrumented(store Store, metrics *infrastructure.BusinessMetrics) *Instrumented {
	return &Instrumented{
		Store:   store,
		metrics: metrics,
		tracer:  otel.Tracer(infrastructure.MeterName + "/sheets"),
	}
}

// Fetch records the fetch duration per sheet
func (s *Instrumented) Fetch(ctx context.Context, sheet string) ([]Row, error) {
	ctx, span := s.tracer.Start(ctx, "sheets.fetch", trace.WithAttributes(attribute.String("sheet", sheet)))
	defer span.End()

	start := time.Now()
	rows, err := s.Store.Fetch(ctx, sheet)
	s.metrics.RecordStoreFetch(ctx, sheet, time.Since(start), err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows", len(rows)))
	return rows, nil
}

// FetchMaster records the MASTER fetch duration
func (s *Instrumented) FetchMaster(ctx context.Context) (domain.MasterOptions, error) {
	ctx, span := s.tracer.Start(ctx, "sheets.fetch_master")
	defer span.End()

	start := time.Now()
	opts, err := s.Store.FetchMaster(ctx)
	s.metrics.RecordStoreFetch(ctx, domain.SheetMaster, time.Since(start), err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
	}
	return opts, err
}

// Update traces row updates
func (s *Instrumented) Update(ctx context.Context, sheet string, rows []Row) error {
	return s.traceWrite(ctx, "update", sheet, len(rows), func(ctx context.Context) error {
		return s.Store.Update(ctx, sheet, rows)
	})
}

// Insert traces row inserts
func (s *Instrumented) Insert(ctx context.Context, sheet string, rows []Row) error {
	return s.traceWrite(ctx, "insert", sheet, len(rows), func(ctx context.Context) error {
		return s.Store.Insert(ctx, sheet, rows)
	})
}

// Delete traces row deletes
func (s *Instrumented) Delete(ctx context.Context, sheet string, rows []Row) error {
	return s.traceWrite(ctx, "delete", sheet, len(rows), func(ctx context.Context) error {
		return s.Store.Delete(ctx, sheet, rows)
	})
}

func (s *Instrumented) traceWrite(ctx context.Context, action, sheet string, n int, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "sheets."+action, trace.WithAttributes(
		attribute.String("sheet", sheet),
		attribute.Int("rows", n),
	))
	defer span.End()

	if err := fn(ctx); err != nil {
		infrastructure.RecordError(ctx, err)
		return err
	}
	return nil
}
