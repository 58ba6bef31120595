package exporter

import (
	"indentdesk/pkg/contracts/domain"
)

// Section is one titled table of an exported report
type Section struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Sections lays a dashboard out as the tables both formats render
func Sections(d domain.Dashboard) []Section {
	r := d.Report

	filters := Section{
		Title:   "Filters",
		Headers: []string{"Filter", "Value"},
		Rows: [][]string{
			{"Start date", orAll(d.Filters.StartDate)},
			{"End date", orAll(d.Filters.EndDate)},
			{"Vendors", orAll(formatList(d.Filters.Vendors))},
			{"Products", orAll(formatList(d.Filters.Products))},
		},
	}

	kpis := Section{
		Title:   "Summary",
		Headers: []string{"Metric", "Count", "Quantity"},
		Rows: [][]string{
			{"Approved indents", formatInt(r.ApprovedIndentCount), formatFloat(r.TotalApprovedQuantity)},
			{"Received purchases", formatInt(r.ReceivedPurchaseCount), formatFloat(r.TotalPurchasedQuantity)},
			{"Issued indents", formatInt(r.IssuedIndentCount), formatFloat(r.TotalIssuedQuantity)},
		},
	}

	products := Section{
		Title:   "Top Products",
		Headers: []string{"Rank", "Product", "Frequency", "Quantity"},
		Rows:    make([][]string, 0, len(r.TopProducts)),
	}
	for i, p := range r.TopProducts {
		products.Rows = append(products.Rows, []string{formatInt(i + 1), p.Name, formatInt(p.Frequency), formatFloat(p.Quantity)})
	}

	vendors := Section{
		Title:   "Top Vendors",
		Headers: []string{"Rank", "Vendor", "Orders", "Quantity"},
		Rows:    make([][]string, 0, len(r.TopVendors)),
	}
	for i, v := range r.TopVendors {
		vendors.Rows = append(vendors.Rows, []string{formatInt(i + 1), v.Name, formatInt(v.Orders), formatFloat(v.Quantity)})
	}

	return []Section{filters, kpis, products, vendors}
}
