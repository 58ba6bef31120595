package services

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"indentdesk/internal/analytics"
	"indentdesk/internal/infrastructure"
	"indentdesk/pkg/contracts/domain"
)

// DashboardService computes the dashboard screen
type DashboardService struct {
	reader  *SheetReader
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewDashboardService creates a dashboard service
func NewDashboardService(reader *SheetReader, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		reader:  reader,
		metrics: metrics,
		logger:  logger.With(slog.String("service", "dashboard")),
	}
}

// Report fetches INDENT, RECEIVED and INVENTORY concurrently and computes
// the report for filters
func (s *DashboardService) Report(ctx context.Context, filters domain.FilterSpec) (domain.Dashboard, error) {
	var (
		indents   []domain.Indent
		received  []domain.Received
		inventory []domain.InventoryItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		indents, err = readSheet[domain.Indent](gctx, s.reader, domain.SheetIndent)
		return err
	})
	g.Go(func() (err error) {
		received, err = readSheet[domain.Received](gctx, s.reader, domain.SheetReceived)
		return err
	})
	g.Go(func() (err error) {
		inventory, err = readSheet[domain.InventoryItem](gctx, s.reader, domain.SheetInventory)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "dashboard fetch failed", slog.String("error", err.Error()))
		return domain.Dashboard{}, err
	}

	report := analytics.Analyze(indents, received, filters)
	filtered := filters.StartDate != "" || filters.EndDate != "" || len(filters.Vendors) > 0 || len(filters.Products) > 0
	s.metrics.RecordDashboard(ctx, filtered)

	ambiguous := analytics.AmbiguousIndentNumbers(indents)
	if len(ambiguous) > 0 {
		s.logger.DebugContext(ctx, "indent numbers join to more than one product",
			slog.Int("count", len(ambiguous)),
			slog.Any("indent_numbers", ambiguous),
		)
	}

	s.logger.DebugContext(ctx, "dashboard computed",
		slog.Int("indents", len(indents)),
		slog.Int("received", len(received)),
		slog.Bool("filtered", filtered),
	)

	return domain.Dashboard{
		Report:           report,
		Filters:          filters,
		Options:          analytics.FilterOptions(indents),
		Alerts:           analytics.SummarizeInventory(inventory),
		AmbiguousIndents: ambiguous,
	}, nil
}

// Options lists the vendor and product values the filters offer
func (s *DashboardService) Options(ctx context.Context) (domain.FilterOptions, error) {
	indents, err := readSheet[domain.Indent](ctx, s.reader, domain.SheetIndent)
	if err != nil {
		return domain.FilterOptions{}, err
	}
	return analytics.FilterOptions(indents), nil
}
