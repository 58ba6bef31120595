package domain

import "strings"

// Vendor types recorded when an indent is approved
const (
	VendorTypeRegular    = "Regular"
	VendorTypeThreeParty = "Three Party"
	VendorTypeReject     = "Reject"
)

// Indent types
const (
	IndentTypePurchase = "Purchase"
	IndentTypeStoreOut = "Store Out"
)

// Issue statuses written by the store-out stage
const (
	IssueStatusApproved = "Approved"
	IssueStatusRejected = "Rejected"
	IssueStatusIssued   = "Issued"
)

// Indent is one product line of an indent request (a row of the INDENT sheet).
// Stage columns come in planned/actual/delay triples; a stage is pending when
// its planned column is set and its actual column is still empty.
type Indent struct {
	Timestamp        string `json:"timestamp"`
	IndentNumber     string `json:"indentNumber"`
	IndenterName     string `json:"indenterName"`
	Department       string `json:"department"`
	AreaOfUse        string `json:"areaOfUse"`
	GroupHead        string `json:"groupHead"`
	ProductName      string `json:"productName"`
	Quantity         Number `json:"quantity"`
	UOM              string `json:"uom"`
	Specifications   string `json:"specifications"`
	IndentApprovedBy string `json:"indentApprovedBy"`
	IndentType       string `json:"indentType"`
	Attachment       string `json:"attachment"`

	Planned1   string `json:"planned1"`
	Actual1    string `json:"actual1"`
	TimeDelay1 string `json:"timeDelay1"`

	VendorType       string `json:"vendorType"`
	ApprovedQuantity Number `json:"approvedQuantity"`

	Planned2   string `json:"planned2"`
	Actual2    string `json:"actual2"`
	TimeDelay2 string `json:"timeDelay2"`

	VendorName1     string `json:"vendorName1"`
	Rate1           Number `json:"rate1"`
	PaymentTerm1    string `json:"paymentTerm1"`
	VendorName2     string `json:"vendorName2"`
	Rate2           Number `json:"rate2"`
	PaymentTerm2    string `json:"paymentTerm2"`
	VendorName3     string `json:"vendorName3"`
	Rate3           Number `json:"rate3"`
	PaymentTerm3    string `json:"paymentTerm3"`
	ComparisonSheet string `json:"comparisonSheet"`

	Planned3   string `json:"planned3"`
	Actual3    string `json:"actual3"`
	TimeDelay3 string `json:"timeDelay3"`

	ApprovedVendorName  string `json:"approvedVendorName"`
	ApprovedRate        Number `json:"approvedRate"`
	ApprovedPaymentTerm string `json:"approvedPaymentTerm"`
	ApprovedDate        string `json:"approvedDate"`

	Planned4   string `json:"planned4"`
	Actual4    string `json:"actual4"`
	TimeDelay4 string `json:"timeDelay4"`
	PONumber   string `json:"poNumber"`
	POCopy     string `json:"poCopy"`

	Planned5      string `json:"planned5"`
	Actual5       string `json:"actual5"`
	TimeDelay5    string `json:"timeDelay5"`
	ReceiveStatus string `json:"receiveStatus"`

	Planned6        string `json:"planned6"`
	Actual6         string `json:"actual6"`
	TimeDelay6      string `json:"timeDelay6"`
	IssueApprovedBy string `json:"issueApprovedBy"`
	IssueStatus     string `json:"issueStatus"`
	IssuedQuantity  Number `json:"issuedQuantity"`
}

// IsApproved reports whether a vendor type was chosen for the line
func (i Indent) IsApproved() bool {
	switch strings.ToLower(i.VendorType) {
	case "three party", "regular":
		return true
	}
	return false
}

// IsIssued reports whether the store issued the line
func (i Indent) IsIssued() bool {
	return strings.ToLower(i.IssueStatus) == "issued"
}

// VendorQuote is one vendor offer recorded in the vendor-update stage
type VendorQuote struct {
	Name        string `json:"name" validate:"required"`
	Rate        Number `json:"rate" validate:"gt=0"`
	PaymentTerm string `json:"paymentTerm"`
}

// Quotes returns the non-empty vendor offers stored on the line
func (i Indent) Quotes() []VendorQuote {
	all := []VendorQuote{
		{Name: i.VendorName1, Rate: i.Rate1, PaymentTerm: i.PaymentTerm1},
		{Name: i.VendorName2, Rate: i.Rate2, PaymentTerm: i.PaymentTerm2},
		{Name: i.VendorName3, Rate: i.Rate3, PaymentTerm: i.PaymentTerm3},
	}
	quotes := make([]VendorQuote, 0, len(all))
	for _, q := range all {
		if q.Name != "" {
			quotes = append(quotes, q)
		}
	}
	return quotes
}
