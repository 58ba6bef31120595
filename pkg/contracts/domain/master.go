package domain

// Vendor is a registered supplier from the MASTER sheet
type Vendor struct {
	VendorName string `json:"vendorName"`
	GSTIN      string `json:"gstin"`
	Address    string `json:"address"`
	Email      string `json:"email"`
}

// MasterOptions is the reference data derived from the MASTER sheet columns
type MasterOptions struct {
	Vendors            []Vendor            `json:"vendors"`
	PaymentTerms       []string            `json:"paymentTerms"`
	Departments        []string            `json:"departments"`
	GroupHeads         map[string][]string `json:"groupHeads"`
	CompanyName        string              `json:"companyName"`
	CompanyAddress     string              `json:"companyAddress"`
	CompanyGSTIN       string              `json:"companyGstin"`
	CompanyPhone       string              `json:"companyPhone"`
	BillingAddress     string              `json:"billingAddress"`
	CompanyPAN         string              `json:"companyPan"`
	DestinationAddress string              `json:"destinationAddress"`
	DefaultTerms       []string            `json:"defaultTerms"`
}

// FindVendor looks a vendor up by exact name
func (m MasterOptions) FindVendor(name string) (Vendor, bool) {
	for _, v := range m.Vendors {
		if v.VendorName == name {
			return v, true
		}
	}
	return Vendor{}, false
}
