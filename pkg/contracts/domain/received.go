package domain

// Received is one goods-receipt event (a row of the RECEIVED sheet)
type Received struct {
	Timestamp          string `json:"timestamp"`
	IndentNumber       string `json:"indentNumber"`
	PODate             string `json:"poDate"`
	PONumber           string `json:"poNumber"`
	Vendor             string `json:"vendor"`
	ReceivedStatus     string `json:"receivedStatus"`
	ReceivedQuantity   Number `json:"receivedQuantity"`
	UOM                string `json:"uom"`
	PhotoOfProduct     string `json:"photoOfProduct"`
	WarrantyStatus     string `json:"warrantyStatus"`
	EndDate            string `json:"endDate"`
	BillStatus         string `json:"billStatus"`
	BillNumber         string `json:"billNumber"`
	BillAmount         Number `json:"billAmount"`
	PhotoOfBill        string `json:"photoOfBill"`
	AnyTransportations string `json:"anyTransportations"`
	TransporterName    string `json:"transporterName"`
	TransportingAmount Number `json:"transportingAmount"`
}
