package services

import (
	"context"
	"fmt"
	"log/slog"

	"indentdesk/internal/analytics"
	"indentdesk/pkg/contracts/domain"
)

// PurchaseOrderService lists purchase orders from PO MASTER
type PurchaseOrderService struct {
	reader *SheetReader
	logger *slog.Logger
}

// NewPurchaseOrderService creates a purchase order service
func NewPurchaseOrderService(reader *SheetReader, logger *slog.Logger) *PurchaseOrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PurchaseOrderService{reader: reader, logger: logger.With(slog.String("service", "purchase_orders"))}
}

// List groups PO lines per PO number and recomputes amounts. The sheet's
// own amount column is compared and mismatches are logged.
func (s *PurchaseOrderService) List(ctx context.Context) ([]domain.PurchaseOrderSummary, error) {
	lines, err := readSheet[domain.PurchaseOrder](ctx, s.reader, domain.SheetPOMaster)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		if line.Amount == 0 {
			continue
		}
		computed := analytics.LineAmount(line).InexactFloat64()
		if diff := computed - line.Amount.Float(); diff > 0.01 || diff < -0.01 {
			s.logger.DebugContext(ctx, "po line amount differs from sheet",
				slog.String("po_number", line.PONumber),
				slog.String("product", line.Product),
				slog.Float64("sheet", line.Amount.Float()),
				slog.Float64("computed", computed),
			)
		}
	}
	return analytics.SummarizePurchaseOrders(lines), nil
}

// Get returns one purchase order
func (s *PurchaseOrderService) Get(ctx context.Context, number string) (domain.PurchaseOrderSummary, error) {
	orders, err := s.List(ctx)
	if err != nil {
		return domain.PurchaseOrderSummary{}, err
	}
	for _, po := range orders {
		if po.PONumber == number {
			return po, nil
		}
	}
	return domain.PurchaseOrderSummary{}, fmt.Errorf("%w: purchase order %s", ErrNotFound, number)
}
