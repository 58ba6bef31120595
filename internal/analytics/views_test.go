package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indentdesk/pkg/contracts/domain"
)

func TestFilterOptions(t *testing.T) {
	indents := []domain.Indent{
		{ProductName: "Nut", ApprovedVendorName: "Zeta Supply"},
		{ProductName: "Bolt", ApprovedVendorName: ""},
		{ProductName: "Nut", ApprovedVendorName: "Acme"},
		{ProductName: "", ApprovedVendorName: "Acme"},
	}

	opts := FilterOptions(indents)

	assert.Equal(t, []string{"Acme", "Zeta Supply"}, opts.Vendors)
	assert.Equal(t, []string{"Bolt", "Nut"}, opts.Products)
}

func TestAmbiguousIndentNumbers(t *testing.T) {
	indents := []domain.Indent{
		{IndentNumber: "SI-0002", ProductName: "Nut"},
		{IndentNumber: "SI-0002", ProductName: "Nut"},
		{IndentNumber: "SI-0001", ProductName: "Nut"},
		{IndentNumber: "SI-0001", ProductName: "Bolt"},
		{IndentNumber: "SI-0003", ProductName: ""},
	}

	assert.Equal(t, []string{"SI-0001"}, AmbiguousIndentNumbers(indents))
	assert.Empty(t, AmbiguousIndentNumbers(nil))
}

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		name string
		item domain.InventoryItem
		want domain.StockStatus
	}{
		{name: "empty shelf beats colour", item: domain.InventoryItem{Current: 0, ColorCode: "purple"}, want: domain.StockOut},
		{name: "red is low", item: domain.InventoryItem{Current: 3, ColorCode: "Red"}, want: domain.StockLow},
		{name: "purple is excess", item: domain.InventoryItem{Current: 90, ColorCode: "PURPLE"}, want: domain.StockExcess},
		{name: "anything else is in stock", item: domain.InventoryItem{Current: 10, ColorCode: "green"}, want: domain.StockIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStock(tt.item))
		})
	}
}

func TestSummarizeInventory(t *testing.T) {
	items := []domain.InventoryItem{
		{ItemName: "Bolt", Current: 0, TotalPrice: 0.1},
		{ItemName: "Nut", Current: 2, ColorCode: "red", TotalPrice: 0.2},
		{ItemName: "Tape", Current: 80, ColorCode: "purple", TotalPrice: 1000},
		{ItemName: "Glue", Current: 5, TotalPrice: 12.5},
	}

	alerts := SummarizeInventory(items)

	assert.Equal(t, 4, alerts.Items)
	assert.Equal(t, 1, alerts.OutOfStock)
	assert.Equal(t, 1, alerts.LowStock)
	assert.Equal(t, 1, alerts.Excess)
	assert.Equal(t, 1012.8, alerts.TotalValue)

	views := InventoryViews(items)
	require.Len(t, views, 4)
	assert.Equal(t, domain.StockLow, views[1].Status)
}

func TestLineAmount(t *testing.T) {
	tests := []struct {
		name string
		line domain.PurchaseOrder
		want string
	}{
		{name: "plain", line: domain.PurchaseOrder{Quantity: 10, Rate: 12.5}, want: "125"},
		{name: "discount then gst", line: domain.PurchaseOrder{Quantity: 4, Rate: 250, Discount: 10, GST: 18}, want: "1062"},
		{name: "fractional rate", line: domain.PurchaseOrder{Quantity: 3, Rate: 0.1, GST: 5}, want: "0.32"},
		{name: "blank cells", line: domain.PurchaseOrder{}, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineAmount(tt.line).String())
		})
	}
}

func TestSummarizePurchaseOrders(t *testing.T) {
	lines := []domain.PurchaseOrder{
		{PONumber: "PO-2", PartyName: "Acme", Quantity: 2, Rate: 50, GST: 18, Term1: "Net 30"},
		{PONumber: "PO-1", PartyName: "Volt", Quantity: 1, Rate: 10},
		{PONumber: "PO-2", PartyName: "Acme", Quantity: 1, Rate: 100},
	}

	summaries := SummarizePurchaseOrders(lines)

	require.Len(t, summaries, 2)
	assert.Equal(t, "PO-2", summaries[0].PONumber)
	assert.Len(t, summaries[0].Lines, 2)
	assert.Equal(t, 200.0, summaries[0].Subtotal)
	assert.Equal(t, 218.0, summaries[0].Total)
	assert.Equal(t, 118.0, summaries[0].Lines[0].Amount.Float())
	assert.Equal(t, []string{"Net 30"}, summaries[0].Terms)
	assert.Equal(t, "PO-1", summaries[1].PONumber)
}
