package analytics

import (
	"sort"

	"indentdesk/pkg/contracts/domain"
)

// TopN bounds both rankings
const TopN = 10

type allowList map[string]struct{}

func newAllowList(values []string) allowList {
	set := make(allowList, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// match is true for every name when the list is empty
func (a allowList) match(name string) bool {
	if len(a) == 0 {
		return true
	}
	_, ok := a[name]
	return ok
}

// productIndex maps indent number to product name. Later rows overwrite
// earlier ones; AmbiguousIndentNumbers reports where that loses information.
func productIndex(indents []domain.Indent) map[string]string {
	index := make(map[string]string, len(indents))
	for _, i := range indents {
		index[i.IndentNumber] = i.ProductName
	}
	return index
}

// Analyze computes the dashboard report
func Analyze(indents []domain.Indent, received []domain.Received, filters domain.FilterSpec) domain.Report {
	dates := newWindow(filters.StartDate, filters.EndDate)
	vendors := newAllowList(filters.Vendors)
	products := newAllowList(filters.Products)
	index := productIndex(indents)

	report := domain.Report{
		TopProducts: []domain.ProductRank{},
		TopVendors:  []domain.VendorRank{},
	}

	for _, i := range indents {
		if !dates.contains(i.Timestamp) || !products.match(i.ProductName) {
			continue
		}
		if i.IsApproved() {
			report.ApprovedIndentCount++
			report.TotalApprovedQuantity += i.ApprovedQuantity.Float()
		}
		if i.IsIssued() {
			report.IssuedIndentCount++
			report.TotalIssuedQuantity += i.IssuedQuantity.Float()
		}
	}

	productPos := make(map[string]int)
	vendorPos := make(map[string]int)

	for _, r := range received {
		if !dates.contains(r.Timestamp) {
			continue
		}
		qty := r.ReceivedQuantity.Float()
		product := index[r.IndentNumber]

		// Unresolved products pass the purchases filter but never rank.
		if vendors.match(r.Vendor) && (product == "" || products.match(product)) {
			report.ReceivedPurchaseCount++
			report.TotalPurchasedQuantity += qty
		}

		if product != "" && products.match(product) {
			pos, ok := productPos[product]
			if !ok {
				pos = len(report.TopProducts)
				productPos[product] = pos
				report.TopProducts = append(report.TopProducts, domain.ProductRank{Name: product})
			}
			report.TopProducts[pos].Frequency++
			report.TopProducts[pos].Quantity += qty
		}

		if vendors.match(r.Vendor) {
			pos, ok := vendorPos[r.Vendor]
			if !ok {
				pos = len(report.TopVendors)
				vendorPos[r.Vendor] = pos
				report.TopVendors = append(report.TopVendors, domain.VendorRank{Name: r.Vendor})
			}
			report.TopVendors[pos].Orders++
			report.TopVendors[pos].Quantity += qty
		}
	}

	sort.SliceStable(report.TopProducts, func(a, b int) bool {
		return report.TopProducts[a].Frequency > report.TopProducts[b].Frequency
	})
	sort.SliceStable(report.TopVendors, func(a, b int) bool {
		return report.TopVendors[a].Orders > report.TopVendors[b].Orders
	})

	if len(report.TopProducts) > TopN {
		report.TopProducts = report.TopProducts[:TopN]
	}
	if len(report.TopVendors) > TopN {
		report.TopVendors = report.TopVendors[:TopN]
	}

	return report
}
