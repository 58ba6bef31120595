package analytics

import (
	"strings"

	"github.com/shopspring/decimal"

	"indentdesk/pkg/contracts/domain"
)

// ClassifyStock derives an item's status. An empty shelf wins over the
// sheet's colour code.
func ClassifyStock(item domain.InventoryItem) domain.StockStatus {
	if item.Current.Float() == 0 {
		return domain.StockOut
	}
	switch strings.ToLower(strings.TrimSpace(item.ColorCode)) {
	case "red":
		return domain.StockLow
	case "purple":
		return domain.StockExcess
	default:
		return domain.StockIn
	}
}

// InventoryViews decorates every item with its status
func InventoryViews(items []domain.InventoryItem) []domain.InventoryView {
	views := make([]domain.InventoryView, 0, len(items))
	for _, item := range items {
		views = append(views, domain.InventoryView{InventoryItem: item, Status: ClassifyStock(item)})
	}
	return views
}

// SummarizeInventory counts items per alert status and totals stock value
func SummarizeInventory(items []domain.InventoryItem) domain.InventoryAlerts {
	alerts := domain.InventoryAlerts{Items: len(items)}
	total := decimal.Zero
	for _, item := range items {
		switch ClassifyStock(item) {
		case domain.StockOut:
			alerts.OutOfStock++
		case domain.StockLow:
			alerts.LowStock++
		case domain.StockExcess:
			alerts.Excess++
		}
		total = total.Add(decimal.NewFromFloat(item.TotalPrice.Float()))
	}
	alerts.TotalValue = total.Round(2).InexactFloat64()
	return alerts
}
