package analytics

import (
	"sort"

	"indentdesk/pkg/contracts/domain"
)

// FilterOptions lists the distinct approved vendors and product names found
// in the indent rows, sorted for display.
func FilterOptions(indents []domain.Indent) domain.FilterOptions {
	vendors := make(map[string]struct{})
	products := make(map[string]struct{})
	for _, i := range indents {
		if i.ApprovedVendorName != "" {
			vendors[i.ApprovedVendorName] = struct{}{}
		}
		if i.ProductName != "" {
			products[i.ProductName] = struct{}{}
		}
	}
	return domain.FilterOptions{
		Vendors:  sortedKeys(vendors),
		Products: sortedKeys(products),
	}
}

// AmbiguousIndentNumbers returns the indent numbers whose lines name more
// than one distinct product. Receipts against these numbers are attributed
// to the last line's product by Analyze.
func AmbiguousIndentNumbers(indents []domain.Indent) []string {
	seen := make(map[string]map[string]struct{})
	for _, i := range indents {
		if i.ProductName == "" {
			continue
		}
		names, ok := seen[i.IndentNumber]
		if !ok {
			names = make(map[string]struct{})
			seen[i.IndentNumber] = names
		}
		names[i.ProductName] = struct{}{}
	}

	ambiguous := make(map[string]struct{})
	for number, names := range seen {
		if len(names) > 1 {
			ambiguous[number] = struct{}{}
		}
	}
	return sortedKeys(ambiguous)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
