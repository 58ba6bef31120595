package domain

// PurchaseOrder is one line of the PO MASTER sheet
type PurchaseOrder struct {
	Timestamp       string `json:"timestamp"`
	PartyName       string `json:"partyName"`
	PONumber        string `json:"poNumber"`
	InternalCode    string `json:"internalCode"`
	Product         string `json:"product"`
	Description     string `json:"description"`
	Quantity        Number `json:"quantity"`
	Unit            string `json:"unit"`
	Rate            Number `json:"rate"`
	GST             Number `json:"gst"`
	Discount        Number `json:"discount"`
	Amount          Number `json:"amount"`
	TotalPOAmount   Number `json:"totalPoAmount"`
	PreparedBy      string `json:"preparedBy"`
	ApprovedBy      string `json:"approvedBy"`
	PDF             string `json:"pdf"`
	QuotationNumber string `json:"quotationNumber"`
	QuotationDate   string `json:"quotationDate"`
	EnquiryNumber   string `json:"enquiryNumber"`
	EnquiryDate     string `json:"enquiryDate"`
	Term1           string `json:"term1"`
	Term2           string `json:"term2"`
	Term3           string `json:"term3"`
	Term4           string `json:"term4"`
	Term5           string `json:"term5"`
	Term6           string `json:"term6"`
	Term7           string `json:"term7"`
	Term8           string `json:"term8"`
	Term9           string `json:"term9"`
	Term10          string `json:"term10"`
}

// Terms returns the non-empty terms in column order
func (p PurchaseOrder) Terms() []string {
	all := []string{p.Term1, p.Term2, p.Term3, p.Term4, p.Term5, p.Term6, p.Term7, p.Term8, p.Term9, p.Term10}
	terms := make([]string, 0, len(all))
	for _, t := range all {
		if t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// PurchaseOrderSummary groups the lines of one PO with recomputed totals
type PurchaseOrderSummary struct {
	PONumber  string          `json:"poNumber"`
	PartyName string          `json:"partyName"`
	Lines     []PurchaseOrder `json:"lines"`
	Subtotal  float64         `json:"subtotal"`
	Total     float64         `json:"total"`
	Terms     []string        `json:"terms"`
}
