package http

import (
	"bytes"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"indentdesk/internal/auth"
	"indentdesk/internal/sheets"
	"indentdesk/internal/sheets/sheetstest"
	api "indentdesk/pkg/contracts/api/v1"
	"indentdesk/pkg/contracts/domain"
)

func TestAuthHandler(t *testing.T) {
	hashed, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)
	store := sheetstest.New()
	sheetstest.SeedRecords(store, domain.SheetUser,
		domain.User{Username: "meena", Password: hashed, Name: "Meena Iyer", IndentApprovalView: true})
	h := newHarness(t, store)

	t.Run("login, me, logout", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/api/v1/auth/login", api.LoginRequest{Username: "meena", Password: "s3cret-pass"}, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var token api.TokenResponse
		envelope(t, rec, &token)
		require.NotEmpty(t, token.Token)
		assert.Equal(t, "Meena Iyer", token.User.Name)

		rec = h.do(t, http.MethodGet, "/api/v1/auth/me", nil, token.Token)
		require.Equal(t, http.StatusOK, rec.Code)
		var profile domain.Profile
		envelope(t, rec, &profile)
		assert.Equal(t, "meena", profile.Username)
		assert.Contains(t, profile.Permissions, domain.PermIndentApprovalView)

		rec = h.do(t, http.MethodPost, "/api/v1/auth/logout", nil, token.Token)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = h.do(t, http.MethodGet, "/api/v1/auth/me", nil, token.Token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	tests := []struct {
		name   string
		body   interface{}
		status int
		code   string
	}{
		{name: "wrong password", body: api.LoginRequest{Username: "meena", Password: "nope"}, status: http.StatusUnauthorized, code: "INVALID_CREDENTIALS"},
		{name: "unknown user", body: api.LoginRequest{Username: "ghost", Password: "nope"}, status: http.StatusUnauthorized, code: "INVALID_CREDENTIALS"},
		{name: "missing password", body: map[string]string{"username": "meena"}, status: http.StatusBadRequest, code: "VALIDATION_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(t, http.MethodPost, "/api/v1/auth/login", tt.body, "")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, problem(t, rec)["error_code"])
		})
	}

	t.Run("me without token", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/auth/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestDashboardHandler(t *testing.T) {
	store := sheetstest.New()
	sheetstest.SeedRecords(store, domain.SheetIndent, boltIndent())
	sheetstest.SeedRecords(store, domain.SheetReceived, domain.Received{
		Timestamp:        "2024-01-10",
		IndentNumber:     "SI-0001",
		Vendor:           "Acme",
		ReceivedQuantity: 30,
	})
	h := newHarness(t, store)
	token := h.token(t)

	t.Run("unfiltered", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/dashboard", nil, token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var d domain.Dashboard
		envelope(t, rec, &d)
		assert.Equal(t, 1, d.Report.ApprovedIndentCount)
		assert.Equal(t, 50.0, d.Report.TotalApprovedQuantity)
		assert.Equal(t, 1, d.Report.ReceivedPurchaseCount)
		assert.Equal(t, []domain.VendorRank{{Name: "Acme", Orders: 1, Quantity: 30}}, d.Report.TopVendors)
	})

	t.Run("start date excludes the indent", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/dashboard?startDate=2024-01-06", nil, token)
		require.Equal(t, http.StatusOK, rec.Code)

		var d domain.Dashboard
		envelope(t, rec, &d)
		assert.Equal(t, 0, d.Report.ApprovedIndentCount)
		assert.Equal(t, 1, d.Report.ReceivedPurchaseCount)
		assert.Equal(t, "2024-01-06", d.Filters.StartDate)
	})

	t.Run("repeatable product filter", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/dashboard?product=Nut&product=Washer", nil, token)
		require.Equal(t, http.StatusOK, rec.Code)

		var d domain.Dashboard
		envelope(t, rec, &d)
		assert.Equal(t, []string{"Nut", "Washer"}, d.Filters.Products)
		assert.Equal(t, 0, d.Report.ApprovedIndentCount)
		assert.Empty(t, d.Report.TopProducts)
	})

	t.Run("bad date", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/dashboard?endDate=yesterday", nil, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("options", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/dashboard/options", nil, token)
		require.Equal(t, http.StatusOK, rec.Code)
		var opts domain.FilterOptions
		envelope(t, rec, &opts)
		assert.Equal(t, []string{"Bolt"}, opts.Products)
	})

	t.Run("requires a session", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/dashboard", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestDashboardHandler_ListFiltersMatchVerbatim(t *testing.T) {
	store := sheetstest.New()
	sheetstest.SeedRecords(store, domain.SheetIndent, boltIndent())
	sheetstest.SeedRecords(store, domain.SheetReceived,
		domain.Received{Timestamp: "2024-01-10", IndentNumber: "SI-0001", Vendor: "Acme", ReceivedQuantity: 30},
		domain.Received{Timestamp: "2024-01-11", IndentNumber: "SI-0001", Vendor: " Volt ", ReceivedQuantity: 12},
	)
	h := newHarness(t, store)
	token := h.token(t)

	tests := []struct {
		name    string
		query   string
		filters []string
		vendors []domain.VendorRank
	}{
		{
			name:    "padded sheet value",
			query:   "vendor=%20Volt%20",
			filters: []string{" Volt "},
			vendors: []domain.VendorRank{{Name: " Volt ", Orders: 1, Quantity: 12}},
		},
		{
			name:    "trimmed value does not match padded name",
			query:   "vendor=Volt",
			filters: []string{"Volt"},
			vendors: []domain.VendorRank{},
		},
		{
			name:    "case sensitive",
			query:   "vendor=acme",
			filters: []string{"acme"},
			vendors: []domain.VendorRank{},
		},
		{
			name:    "blank values dropped",
			query:   "vendor=&vendor=%20&vendor=Acme",
			filters: []string{"Acme"},
			vendors: []domain.VendorRank{{Name: "Acme", Orders: 1, Quantity: 30}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(t, http.MethodGet, "/api/v1/dashboard?"+tt.query, nil, token)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var d domain.Dashboard
			envelope(t, rec, &d)
			assert.Equal(t, tt.filters, d.Filters.Vendors)
			assert.Equal(t, tt.vendors, d.Report.TopVendors)
		})
	}
}

func TestDashboardHandler_Exports(t *testing.T) {
	store := sheetstest.New()
	sheetstest.SeedRecords(store, domain.SheetIndent, boltIndent())
	h := newHarness(t, store)
	token := h.token(t)

	t.Run("csv", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/export/report.csv", nil, token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "indent_report.csv")
		assert.Contains(t, rec.Body.String(), "Approved indents,1,50.00")
	})

	t.Run("xlsx", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/export/report.xlsx", nil, token)
		require.Equal(t, http.StatusOK, rec.Code)

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		assert.Contains(t, f.GetSheetList(), "Top Products")
	})

	t.Run("bad filter is a problem, not a file", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/export/report.csv?startDate=soon", nil, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestIndentHandler_Queues(t *testing.T) {
	store := sheetstest.New()
	sheetstest.SeedRecords(store, domain.SheetIndent, boltIndent(), pendingApproval("SI-0002", "Nut"))
	h := newHarness(t, store)

	tests := []struct {
		name   string
		path   string
		perms  []domain.Permission
		status int
		rows   int
	}{
		{name: "pending with permission", path: "/api/v1/indents/indent-approval/pending", perms: []domain.Permission{domain.PermIndentApprovalView}, status: http.StatusOK, rows: 1},
		{name: "history with permission", path: "/api/v1/indents/indent-approval/history", perms: []domain.Permission{domain.PermIndentApprovalView}, status: http.StatusOK, rows: 1},
		{name: "administrator sees every queue", path: "/api/v1/indents/vendor-update/pending", perms: []domain.Permission{domain.PermAdministrate}, status: http.StatusOK, rows: 0},
		{name: "missing view permission", path: "/api/v1/indents/indent-approval/pending", status: http.StatusForbidden},
		{name: "unknown stage", path: "/api/v1/indents/quality-check/pending", perms: []domain.Permission{domain.PermAdministrate}, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(t, http.MethodGet, tt.path, nil, h.token(t, tt.perms...))
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status != http.StatusOK {
				return
			}
			var rows []domain.Indent
			envelope(t, rec, &rows)
			assert.Len(t, rows, tt.rows)
		})
	}

	t.Run("notifications", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/indents/notifications", nil, h.token(t))
		require.Equal(t, http.StatusOK, rec.Code)
		var counts map[string]int
		envelope(t, rec, &counts)
		assert.Equal(t, 1, counts["indent-approval"])
	})
}

func TestIndentHandler_Create(t *testing.T) {
	store := sheetstest.New()
	sheetstest.SeedRecords(store, domain.SheetIndent, boltIndent())
	h := newHarness(t, store)

	req := api.CreateIndentRequest{
		IndenterName:     "Ravi",
		IndentApprovedBy: "Meena",
		IndentType:       domain.IndentTypePurchase,
		Products: []api.IndentProduct{
			{Department: "Stores", GroupHead: "Hardware", ProductName: "Washer", Quantity: 25, UOM: "pcs", AreaOfUse: "Plant"},
		},
	}

	t.Run("forbidden without createIndent", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/api/v1/indents", req, h.token(t))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("validation lists the failing product field", func(t *testing.T) {
		bad := req
		bad.Products = []api.IndentProduct{{Department: "Stores", GroupHead: "Hardware", ProductName: "Washer", UOM: "pcs", AreaOfUse: "Plant"}}
		rec := h.do(t, http.MethodPost, "/api/v1/indents", bad, h.token(t, domain.PermCreateIndent))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "products[0].quantity")
	})

	t.Run("created", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/api/v1/indents", req, h.token(t, domain.PermCreateIndent))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp api.IndentResponse
		envelope(t, rec, &resp)
		assert.Equal(t, "SI-0002", resp.IndentNumber)
		require.Len(t, resp.Rows, 1)
		assert.Equal(t, "Washer", resp.Rows[0].ProductName)
		assert.Len(t, store.Rows(domain.SheetIndent), 2)
	})
}

func TestIndentHandler_Actions(t *testing.T) {
	t.Run("approve pending indent", func(t *testing.T) {
		store := sheetstest.New()
		sheetstest.SeedRecords(store, domain.SheetIndent, pendingApproval("SI-0002", "Nut"))
		h := newHarness(t, store)

		rec := h.do(t, http.MethodPost, "/api/v1/indents/SI-0002/approve",
			api.ApproveIndentRequest{VendorType: domain.VendorTypeRegular, ApprovedQuantity: 8},
			h.token(t, domain.PermIndentApprovalAction))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp api.IndentResponse
		envelope(t, rec, &resp)
		require.Len(t, resp.Rows, 1)
		assert.Equal(t, domain.VendorTypeRegular, resp.Rows[0].VendorType)
		assert.Equal(t, domain.Number(8), resp.Rows[0].ApprovedQuantity)
		assert.NotEmpty(t, resp.Rows[0].Actual1)
		assert.Len(t, store.CallsFor("update"), 1)
	})

	tests := []struct {
		name   string
		path   string
		body   interface{}
		perms  []domain.Permission
		status int
	}{
		{
			name:   "approving twice conflicts",
			path:   "/api/v1/indents/SI-0001/approve",
			body:   api.ApproveIndentRequest{VendorType: domain.VendorTypeRegular, ApprovedQuantity: 5},
			perms:  []domain.Permission{domain.PermIndentApprovalAction},
			status: http.StatusConflict,
		},
		{
			name:   "unknown indent",
			path:   "/api/v1/indents/SI-0404/approve",
			body:   api.ApproveIndentRequest{VendorType: domain.VendorTypeRegular, ApprovedQuantity: 5},
			perms:  []domain.Permission{domain.PermIndentApprovalAction},
			status: http.StatusNotFound,
		},
		{
			name:   "malformed indent number",
			path:   "/api/v1/indents/0001/approve",
			body:   api.ApproveIndentRequest{VendorType: domain.VendorTypeRegular, ApprovedQuantity: 5},
			perms:  []domain.Permission{domain.PermIndentApprovalAction},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown vendor type",
			path:   "/api/v1/indents/SI-0002/approve",
			body:   map[string]interface{}{"vendorType": "Cheapest", "approvedQuantity": 5},
			perms:  []domain.Permission{domain.PermIndentApprovalAction},
			status: http.StatusBadRequest,
		},
		{
			name:   "view permission cannot act",
			path:   "/api/v1/indents/SI-0002/approve",
			body:   api.ApproveIndentRequest{VendorType: domain.VendorTypeRegular, ApprovedQuantity: 5},
			perms:  []domain.Permission{domain.PermIndentApprovalView},
			status: http.StatusForbidden,
		},
		{
			name:   "rate approval on an undecided indent",
			path:   "/api/v1/indents/SI-0002/rate",
			body:   api.ApproveRateRequest{Vendor: 2},
			perms:  []domain.Permission{domain.PermThreePartyApprovalAction},
			status: http.StatusConflict,
		},
		{
			name:   "store-out approve needs approver",
			path:   "/api/v1/indents/SI-0002/store-out",
			body:   api.StoreOutRequest{Action: api.StoreOutApprove},
			perms:  []domain.Permission{domain.PermStoreOutApprovalAction},
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := sheetstest.New()
			sheetstest.SeedRecords(store, domain.SheetIndent, boltIndent(), pendingApproval("SI-0002", "Nut"))
			h := newHarness(t, store)

			rec := h.do(t, http.MethodPost, tt.path, tt.body, h.token(t, tt.perms...))
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Empty(t, store.CallsFor("update"))
		})
	}

	t.Run("store failure is a bad gateway", func(t *testing.T) {
		store := sheetstest.New()
		sheetstest.SeedRecords(store, domain.SheetIndent, pendingApproval("SI-0002", "Nut"))
		store.FailOn("update", errors.New("quota exceeded"))
		h := newHarness(t, store)

		rec := h.do(t, http.MethodPost, "/api/v1/indents/SI-0002/approve",
			api.ApproveIndentRequest{VendorType: domain.VendorTypeRegular, ApprovedQuantity: 8},
			h.token(t, domain.PermIndentApprovalAction))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "STORE_UNAVAILABLE", problem(t, rec)["error_code"])
	})
}

func TestInventoryHandler(t *testing.T) {
	store := sheetstest.New()
	sheetstest.SeedRecords(store, domain.SheetInventory,
		domain.InventoryItem{ItemName: "Bolt", Current: 0, TotalPrice: 0},
		domain.InventoryItem{ItemName: "Nut", Current: 3, ColorCode: "red", TotalPrice: 12.5},
		domain.InventoryItem{ItemName: "Tape", Current: 40, TotalPrice: 200},
	)
	sheetstest.SeedRecords(store, domain.SheetPOMaster,
		domain.PurchaseOrder{Timestamp: "2024-01-02", PONumber: "PO-1", PartyName: "Acme", Quantity: 2, Rate: 50, GST: 18},
	)
	h := newHarness(t, store)
	token := h.token(t)

	t.Run("all items", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/inventory", nil, token)
		require.Equal(t, http.StatusOK, rec.Code)
		var items []domain.InventoryView
		envelope(t, rec, &items)
		assert.Len(t, items, 3)
	})

	t.Run("filtered by status", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/inventory?status=low_stock", nil, token)
		require.Equal(t, http.StatusOK, rec.Code)
		var items []domain.InventoryView
		envelope(t, rec, &items)
		require.Len(t, items, 1)
		assert.Equal(t, "Nut", items[0].ItemName)
	})

	t.Run("bad status", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/inventory?status=sparkly", nil, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("alerts", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/inventory/alerts", nil, token)
		require.Equal(t, http.StatusOK, rec.Code)
		var alerts domain.InventoryAlerts
		envelope(t, rec, &alerts)
		assert.Equal(t, 1, alerts.OutOfStock)
		assert.Equal(t, 1, alerts.LowStock)
		assert.Equal(t, 212.5, alerts.TotalValue)
	})

	t.Run("purchase orders", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/v1/purchase-orders", nil, token)
		require.Equal(t, http.StatusOK, rec.Code)
		var orders []domain.PurchaseOrderSummary
		envelope(t, rec, &orders)
		require.Len(t, orders, 1)
		assert.Equal(t, 118.0, orders[0].Total)

		rec = h.do(t, http.MethodGet, "/api/v1/purchase-orders/PO-9", nil, token)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUploadHandler(t *testing.T) {
	store := sheetstest.New()
	h := newHarness(t, store)
	token := h.token(t)

	t.Run("stored", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/api/v1/uploads", api.UploadRequest{
			FileName: "bill.pdf",
			MimeType: "application/pdf",
			FileData: base64.StdEncoding.EncodeToString([]byte("%PDF-1.4")),
		}, token)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp api.UploadResponse
		envelope(t, rec, &resp)
		assert.Equal(t, store.FileURL, resp.FileURL)

		uploads := store.Uploads()
		require.Len(t, uploads, 1)
		assert.Equal(t, "folder-1", uploads[0].FolderID)
		assert.Equal(t, sheets.UploadTypeUpload, uploads[0].UploadType)
	})

	t.Run("email upload needs an address", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/api/v1/uploads", api.UploadRequest{
			FileName:   "po.pdf",
			MimeType:   "application/pdf",
			FileData:   base64.StdEncoding.EncodeToString([]byte("%PDF-1.4")),
			UploadType: "email",
		}, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("read-only backend", func(t *testing.T) {
		store := sheetstest.New().FailOn("upload", sheets.ErrReadOnly)
		h := newHarness(t, store)
		rec := h.do(t, http.MethodPost, "/api/v1/uploads", api.UploadRequest{
			FileName: "bill.pdf",
			MimeType: "application/pdf",
			FileData: base64.StdEncoding.EncodeToString([]byte("%PDF-1.4")),
		}, h.token(t))
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})
}

func TestHealthHandler(t *testing.T) {
	t.Run("live and ready", func(t *testing.T) {
		h := newHarness(t, sheetstest.New())

		rec := h.do(t, http.MethodGet, "/healthz", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"alive"`)

		rec = h.do(t, http.MethodGet, "/readyz", nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not ready when the store is down", func(t *testing.T) {
		h := newHarness(t, sheetstest.New().FailOn("master", errors.New("dns failure")))
		rec := h.do(t, http.MethodGet, "/readyz", nil, "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "not_ready")
	})
}

func TestClientLogHandler(t *testing.T) {
	h := newHarness(t, sheetstest.New())
	token := h.token(t)

	rec := h.do(t, http.MethodPost, "/api/v1/logs", api.ClientLogRequest{
		Level:        "warn",
		Message:      "chart failed to render",
		Page:         "/dashboard",
		IndentNumber: "SI-0007",
	}, token)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, h.logs.ContainsMessage("chart failed to render"))
	assert.True(t, h.logs.ContainsAttr("page", "/dashboard"))
	assert.True(t, h.logs.ContainsAttr("indent_number", "SI-0007"))

	tests := []struct {
		name string
		req  api.ClientLogRequest
	}{
		{name: "blank message", req: api.ClientLogRequest{Message: strings.Repeat(" ", 3)}},
		{name: "missing message", req: api.ClientLogRequest{Level: "info"}},
		{name: "unknown level", req: api.ClientLogRequest{Level: "fatal", Message: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(t, http.MethodPost, "/api/v1/logs", tt.req, token)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestMasterHandler(t *testing.T) {
	store := sheetstest.New().SetMaster(domain.MasterOptions{
		Vendors:     []domain.Vendor{{VendorName: "Acme Ltd", GSTIN: "29ABCDE1234F1Z5", Address: "Pune"}},
		Departments: []string{"Stores"},
	})
	h := newHarness(t, store)
	token := h.token(t)

	rec := h.do(t, http.MethodGet, "/api/v1/master", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var opts domain.MasterOptions
	envelope(t, rec, &opts)
	assert.Equal(t, []string{"Stores"}, opts.Departments)

	rec = h.do(t, http.MethodGet, "/api/v1/master/vendors/Acme%20Ltd", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var vendor domain.Vendor
	envelope(t, rec, &vendor)
	assert.Equal(t, "Pune", vendor.Address)

	rec = h.do(t, http.MethodGet, "/api/v1/master/vendors/Nobody", nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
