package services

import (
	"context"
	"log/slog"

	"indentdesk/internal/analytics"
	"indentdesk/pkg/contracts/domain"
)

// InventoryService reports stock levels
type InventoryService struct {
	reader *SheetReader
	logger *slog.Logger
}

// NewInventoryService creates an inventory service
func NewInventoryService(reader *SheetReader, logger *slog.Logger) *InventoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InventoryService{reader: reader, logger: logger.With(slog.String("service", "inventory"))}
}

// Items lists every item with its stock status. A non-empty status keeps
// only items in that status.
func (s *InventoryService) Items(ctx context.Context, status domain.StockStatus) ([]domain.InventoryView, error) {
	items, err := readSheet[domain.InventoryItem](ctx, s.reader, domain.SheetInventory)
	if err != nil {
		return nil, err
	}

	views := analytics.InventoryViews(items)
	if status == "" {
		return views, nil
	}
	kept := make([]domain.InventoryView, 0)
	for _, v := range views {
		if v.Status == status {
			kept = append(kept, v)
		}
	}
	return kept, nil
}

// Alerts summarises stock levels
func (s *InventoryService) Alerts(ctx context.Context) (domain.InventoryAlerts, error) {
	items, err := readSheet[domain.InventoryItem](ctx, s.reader, domain.SheetInventory)
	if err != nil {
		return domain.InventoryAlerts{}, err
	}
	alerts := analytics.SummarizeInventory(items)
	if alerts.OutOfStock > 0 {
		s.logger.DebugContext(ctx, "items out of stock", slog.Int("count", alerts.OutOfStock))
	}
	return alerts, nil
}
