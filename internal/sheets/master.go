package sheets

import (
	"encoding/json"
	"strings"

	"indentdesk/pkg/contracts/domain"
)

// MasterColumns holds the MASTER sheet column by column, keyed by header
type MasterColumns map[string][]string

// masterScalars are single company values. They arrive either as a plain
// value or as a column whose first cell holds the value.
var masterScalars = []string{
	"companyName", "companyAddress", "companyGstin", "companyPhone",
	"billingAddress", "companyPan", "destinationAddress",
}

// ParseMasterColumns reads the "options" object of the MASTER response.
// Every key maps to a column array; scalar values become one-cell columns.
func ParseMasterColumns(raw map[string]json.RawMessage) MasterColumns {
	cols := make(MasterColumns, len(raw))
	for key, value := range raw {
		var cells []interface{}
		if err := json.Unmarshal(value, &cells); err != nil {
			var single interface{}
			if err := json.Unmarshal(value, &single); err != nil {
				continue
			}
			cells = []interface{}{single}
		}
		column := make([]string, len(cells))
		for i, c := range cells {
			column[i] = strings.TrimSpace(cellString(c))
		}
		cols[key] = column
	}
	return cols
}

// BuildMaster aggregates the MASTER columns into reference options. A
// vendor needs a name, GSTIN and address on the same row; list columns are
// de-duplicated in first-seen order with blanks dropped; group heads map to
// their item names.
func BuildMaster(cols MasterColumns) domain.MasterOptions {
	length := 0
	for _, col := range cols {
		if len(col) > length {
			length = len(col)
		}
	}

	cell := func(key string, i int) string {
		col := cols[key]
		if i < len(col) {
			return col[i]
		}
		return ""
	}

	opts := domain.MasterOptions{
		Vendors:      make([]domain.Vendor, 0),
		PaymentTerms: make([]string, 0),
		Departments:  make([]string, 0),
		GroupHeads:   make(map[string][]string),
		DefaultTerms: make([]string, 0),
	}
	seen := map[string]map[string]struct{}{
		"department":   {},
		"paymentTerm":  {},
		"defaultTerms": {},
	}
	seenItems := make(map[string]map[string]struct{})

	addUnique := func(key string, dst *[]string, value string) {
		if value == "" {
			return
		}
		if _, dup := seen[key][value]; dup {
			return
		}
		seen[key][value] = struct{}{}
		*dst = append(*dst, value)
	}

	for i := 0; i < length; i++ {
		name, gstin, address := cell("vendorName", i), cell("vendorGstin", i), cell("vendorAddress", i)
		if name != "" && gstin != "" && address != "" {
			opts.Vendors = append(opts.Vendors, domain.Vendor{
				VendorName: name,
				GSTIN:      gstin,
				Address:    address,
				Email:      cell("vendorEmail", i),
			})
		}

		addUnique("department", &opts.Departments, cell("department", i))
		addUnique("paymentTerm", &opts.PaymentTerms, cell("paymentTerm", i))
		addUnique("defaultTerms", &opts.DefaultTerms, cell("defaultTerms", i))

		group, item := cell("groupHead", i), cell("itemName", i)
		if group != "" && item != "" {
			if seenItems[group] == nil {
				seenItems[group] = make(map[string]struct{})
			}
			if _, dup := seenItems[group][item]; !dup {
				seenItems[group][item] = struct{}{}
				opts.GroupHeads[group] = append(opts.GroupHeads[group], item)
			}
		}
	}

	scalars := make(map[string]string, len(masterScalars))
	for _, key := range masterScalars {
		scalars[key] = cell(key, 0)
	}
	opts.CompanyName = scalars["companyName"]
	opts.CompanyAddress = scalars["companyAddress"]
	opts.CompanyGSTIN = scalars["companyGstin"]
	opts.CompanyPhone = scalars["companyPhone"]
	opts.BillingAddress = scalars["billingAddress"]
	opts.CompanyPAN = scalars["companyPan"]
	opts.DestinationAddress = scalars["destinationAddress"]

	return opts
}

// columnsFromGrid turns a header row plus data rows into MasterColumns
func columnsFromGrid(grid [][]string) MasterColumns {
	cols := make(MasterColumns)
	if len(grid) == 0 {
		return cols
	}
	headers := grid[0]
	for c, header := range headers {
		key := HeaderKey(header)
		if key == "" {
			continue
		}
		column := make([]string, 0, len(grid)-1)
		for _, row := range grid[1:] {
			value := ""
			if c < len(row) {
				value = strings.TrimSpace(row[c])
			}
			column = append(column, value)
		}
		cols[key] = column
	}
	return cols
}

// rowsFromGrid turns a header row plus data rows into keyed rows. Rows
// that are entirely blank are skipped.
func rowsFromGrid(grid [][]string) []Row {
	if len(grid) == 0 {
		return []Row{}
	}
	keys := make([]string, len(grid[0]))
	for i, header := range grid[0] {
		keys[i] = HeaderKey(header)
	}

	rows := make([]Row, 0, len(grid)-1)
	for r, cells := range grid[1:] {
		row := Row{"rowIndex": r + 1}
		blank := true
		for c, key := range keys {
			if key == "" {
				continue
			}
			value := ""
			if c < len(cells) {
				value = cells[c]
			}
			if value != "" {
				blank = false
			}
			row[key] = value
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows
}
