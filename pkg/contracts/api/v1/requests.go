// Package api contains the request and response contracts of the v1 HTTP
// API.
package api

import (
	"indentdesk/pkg/contracts/domain"
)

// LoginRequest signs a USER sheet account in
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// IndentProduct is one product line of a new indent
type IndentProduct struct {
	Department     string        `json:"department" validate:"required"`
	GroupHead      string        `json:"groupHead" validate:"required"`
	ProductName    string        `json:"productName" validate:"required"`
	Quantity       domain.Number `json:"quantity" validate:"gt=0"`
	UOM            string        `json:"uom" validate:"required"`
	AreaOfUse      string        `json:"areaOfUse" validate:"required"`
	Specifications string        `json:"specifications"`
	Attachment     string        `json:"attachment" validate:"omitempty,url"`
}

// CreateIndentRequest raises a new indent with one or more product lines
type CreateIndentRequest struct {
	IndenterName     string          `json:"indenterName" validate:"required"`
	IndentApprovedBy string          `json:"indentApprovedBy" validate:"required"`
	IndentType       string          `json:"indentType" validate:"required,oneof=Purchase 'Store Out'"`
	Products         []IndentProduct `json:"products" validate:"required,min=1,dive"`
}

// ApproveIndentRequest records the indent approval decision. The approved
// quantity is required unless the indent is rejected.
type ApproveIndentRequest struct {
	VendorType       string        `json:"vendorType" validate:"required,oneof=Reject 'Three Party' Regular"`
	ApprovedQuantity domain.Number `json:"approvedQuantity" validate:"gte=0"`
}

// UpdateVendorsRequest records the vendor quotes: one for a regular
// indent, three for a three-party comparison
type UpdateVendorsRequest struct {
	Vendors         []domain.VendorQuote `json:"vendors" validate:"required,min=1,max=3,dive"`
	ComparisonSheet string               `json:"comparisonSheet" validate:"omitempty,url"`
}

// ApproveRateRequest picks the winning quote (1 to 3) of a three-party
// comparison
type ApproveRateRequest struct {
	Vendor int `json:"vendor" validate:"required,min=1,max=3"`
}

// UpdateRateRequest corrects the approved rate of a decided comparison
type UpdateRateRequest struct {
	ApprovedRate domain.Number `json:"approvedRate" validate:"gt=0"`
}

// Store-out actions
const (
	StoreOutApprove = "approve"
	StoreOutReject  = "reject"
	StoreOutIssue   = "issue"
)

// StoreOutRequest approves, rejects or marks as issued a store-out indent
type StoreOutRequest struct {
	Action         string        `json:"action" validate:"required,oneof=approve reject issue"`
	ApprovedBy     string        `json:"approvedBy" validate:"required_if=Action approve"`
	IssuedQuantity domain.Number `json:"issuedQuantity" validate:"gte=0"`
	ApprovalDate   string        `json:"approvalDate" validate:"omitempty,isodate"`
}

// UploadRequest stores an attachment (a product photo, bill or comparison
// sheet) and optionally emails it
type UploadRequest struct {
	FileName     string `json:"fileName" validate:"required,max=255"`
	MimeType     string `json:"mimeType" validate:"required"`
	FileData     string `json:"fileData" validate:"required,base64"`
	UploadType   string `json:"uploadType" validate:"omitempty,oneof=upload email"`
	Email        string `json:"email" validate:"required_if=UploadType email,omitempty,email"`
	EmailSubject string `json:"emailSubject"`
	EmailBody    string `json:"emailBody"`
}

// ClientLogRequest is a log line forwarded by the browser, tagged with the
// screen it came from and, on workflow screens, the indent being edited
type ClientLogRequest struct {
	Level        string                 `json:"level" validate:"omitempty,oneof=debug info warn error"`
	Message      string                 `json:"message" validate:"required"`
	Page         string                 `json:"page,omitempty" validate:"max=200"`
	IndentNumber string                 `json:"indentNumber,omitempty" validate:"max=20"`
	Data         map[string]interface{} `json:"data,omitempty"`
}
