package domain

// InventoryItem is a row of the INVENTORY sheet. ColorCode is computed by
// the sheet itself ("red" for low stock, "purple" for excess).
type InventoryItem struct {
	GroupHead        string `json:"groupHead"`
	ItemName         string `json:"itemName"`
	UOM              string `json:"uom"`
	MaxLevel         Number `json:"maxLevel"`
	Opening          Number `json:"opening"`
	IndividualRate   Number `json:"individualRate"`
	Indented         Number `json:"indented"`
	Approved         Number `json:"approved"`
	PurchaseQuantity Number `json:"purchaseQuantity"`
	OutQuantity      Number `json:"outQuantity"`
	Current          Number `json:"current"`
	TotalPrice       Number `json:"totalPrice"`
	ColorCode        string `json:"colorCode"`
}

// StockStatus classifies an inventory item
type StockStatus string

const (
	StockOut    StockStatus = "out_of_stock"
	StockLow    StockStatus = "low_stock"
	StockExcess StockStatus = "excess"
	StockIn     StockStatus = "in_stock"
)

// InventoryView is an item decorated with its computed status
type InventoryView struct {
	InventoryItem
	Status StockStatus `json:"status"`
}

// InventoryAlerts summarises stock levels across all items
type InventoryAlerts struct {
	Items      int     `json:"items"`
	LowStock   int     `json:"lowStock"`
	OutOfStock int     `json:"outOfStock"`
	Excess     int     `json:"excess"`
	TotalValue float64 `json:"totalValue"`
}
