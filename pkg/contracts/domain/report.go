package domain

// Sheet names served by the row store
const (
	SheetIndent    = "INDENT"
	SheetReceived  = "RECEIVED"
	SheetMaster    = "MASTER"
	SheetUser      = "USER"
	SheetPOMaster  = "PO MASTER"
	SheetInventory = "INVENTORY"
)

// AllSheets lists every sheet name the store understands
var AllSheets = []string{SheetIndent, SheetReceived, SheetMaster, SheetUser, SheetPOMaster, SheetInventory}

// FilterSpec restricts the dashboard report. Empty fields do not restrict.
type FilterSpec struct {
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	Vendors   []string `json:"vendors,omitempty"`
	Products  []string `json:"products,omitempty"`
}

// ProductRank is one entry of the top-products ranking
type ProductRank struct {
	Name      string  `json:"name"`
	Frequency int     `json:"frequency"`
	Quantity  float64 `json:"quantity"`
}

// VendorRank is one entry of the top-vendors ranking
type VendorRank struct {
	Name     string  `json:"name"`
	Orders   int     `json:"orders"`
	Quantity float64 `json:"quantity"`
}

// Report holds the dashboard KPIs computed from the INDENT and RECEIVED sheets
type Report struct {
	ApprovedIndentCount    int           `json:"approvedIndentCount"`
	TotalApprovedQuantity  float64       `json:"totalApprovedQuantity"`
	ReceivedPurchaseCount  int           `json:"receivedPurchaseCount"`
	TotalPurchasedQuantity float64       `json:"totalPurchasedQuantity"`
	IssuedIndentCount      int           `json:"issuedIndentCount"`
	TotalIssuedQuantity    float64       `json:"totalIssuedQuantity"`
	TopProducts            []ProductRank `json:"topProducts"`
	TopVendors             []VendorRank  `json:"topVendors"`
}

// FilterOptions lists the values the dashboard filters can pick from
type FilterOptions struct {
	Vendors  []string `json:"vendors"`
	Products []string `json:"products"`
}

// Dashboard is the report plus the context the dashboard screen needs
type Dashboard struct {
	Report           Report          `json:"report"`
	Filters          FilterSpec      `json:"filters"`
	Options          FilterOptions   `json:"options"`
	Alerts           InventoryAlerts `json:"alerts"`
	AmbiguousIndents []string        `json:"ambiguousIndents"`
}
