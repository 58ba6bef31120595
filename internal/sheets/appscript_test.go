package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indentdesk/internal/shared/testutil"
	"indentdesk/pkg/contracts/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *AppScriptClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger, _ := testutil.NewTestLogger(t)
	c := NewAppScriptClient(srv.URL+"/macros/s/abc/exec", 5*time.Second, logger)
	c.retryDelay = time.Millisecond
	return c
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewAppScriptClient_HonoursProxyEnvironment(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	c := NewAppScriptClient("https://script.google.com/macros/s/abc/exec", 0, logger)

	transport, ok := c.httpClient.Transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, transport.Proxy)
	assert.Equal(t,
		reflect.ValueOf(http.ProxyFromEnvironment).Pointer(),
		reflect.ValueOf(transport.Proxy).Pointer())
	assert.Equal(t, 10*time.Second, transport.TLSHandshakeTimeout)
	assert.Equal(t, 30*time.Second, c.httpClient.Timeout)
	assert.NotSame(t, http.DefaultTransport, transport)
}

func TestAppScriptClient_Fetch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/macros/s/abc/exec", r.URL.Path)
		assert.Equal(t, "PO MASTER", r.URL.Query().Get("sheetName"))
		writeJSON(w, map[string]interface{}{
			"success": true,
			"rows": []map[string]interface{}{
				{"timestamp": "2024-01-05T10:00:00.000Z", "poNumber": "PO-1", "quantity": 4},
				{"timestamp": "", "poNumber": ""},
				{"timestamp": "2024-01-06T10:00:00.000Z", "poNumber": "PO-2", "quantity": "2"},
			},
		})
	})

	rows, err := c.Fetch(context.Background(), domain.SheetPOMaster)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "PO-2", rows[1]["poNumber"])

	lines, err := Decode[domain.PurchaseOrder](rows)
	require.NoError(t, err)
	assert.Equal(t, domain.Number(4), lines[0].Quantity)
	assert.Equal(t, domain.Number(2), lines[1].Quantity)
}

func TestAppScriptClient_FetchErrors(t *testing.T) {
	t.Run("unknown sheet", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})
		_, err := c.Fetch(context.Background(), "PAYROLL")
		assert.ErrorIs(t, err, ErrUnknownSheet)
	})

	t.Run("success false", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]interface{}{"success": false, "message": "Sheet not found"})
		})
		_, err := c.Fetch(context.Background(), domain.SheetIndent)
		assert.ErrorIs(t, err, ErrRemoteFailure)
		assert.Contains(t, err.Error(), "Sheet not found")
	})

	t.Run("client error is not retried", func(t *testing.T) {
		var calls int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			http.Error(w, "denied", http.StatusForbidden)
		})
		_, err := c.Fetch(context.Background(), domain.SheetIndent)
		assert.ErrorIs(t, err, ErrRemoteFailure)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("server error is retried", func(t *testing.T) {
		var calls int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				http.Error(w, "busy", http.StatusServiceUnavailable)
				return
			}
			writeJSON(w, map[string]interface{}{"success": true, "rows": []interface{}{}})
		})
		rows, err := c.Fetch(context.Background(), domain.SheetReceived)
		require.NoError(t, err)
		assert.Empty(t, rows)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("retries exhausted", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "busy", http.StatusBadGateway)
		})
		_, err := c.Fetch(context.Background(), domain.SheetReceived)
		assert.ErrorIs(t, err, ErrRemoteFailure)
	})
}

func TestAppScriptClient_FetchMaster(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "MASTER", r.URL.Query().Get("sheetName"))
		writeJSON(w, map[string]interface{}{
			"success": true,
			"options": map[string]interface{}{
				"vendorName":    []interface{}{"Acme", "Volt", ""},
				"vendorGstin":   []interface{}{"29ABC", "", ""},
				"vendorAddress": []interface{}{"Pune", "Delhi", ""},
				"department":    []interface{}{"Stores", "Maintenance", "Stores"},
				"groupHead":     []interface{}{"Fasteners", "Fasteners", "Adhesives"},
				"itemName":      []interface{}{"Bolt", "Nut", "Glue"},
				"companyName":   "Indent Works",
				"companyGstin":  []interface{}{"27XYZ"},
			},
		})
	})

	opts, err := c.FetchMaster(context.Background())
	require.NoError(t, err)

	require.Len(t, opts.Vendors, 1)
	assert.Equal(t, "Acme", opts.Vendors[0].VendorName)
	assert.Equal(t, []string{"Stores", "Maintenance"}, opts.Departments)
	assert.Equal(t, []string{"Bolt", "Nut"}, opts.GroupHeads["Fasteners"])
	assert.Equal(t, "Indent Works", opts.CompanyName)
	assert.Equal(t, "27XYZ", opts.CompanyGSTIN)
}

func TestAppScriptClient_Write(t *testing.T) {
	var gotAction, gotSheet string
	var gotRows []map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		gotAction = r.FormValue("action")
		gotSheet = r.FormValue("sheetName")
		assert.NoError(t, json.Unmarshal([]byte(r.FormValue("rows")), &gotRows))
		writeJSON(w, map[string]interface{}{"success": true, "message": "ok"})
	})

	err := c.Update(context.Background(), domain.SheetIndent, []Row{
		{"indentNumber": "SI-0001", "actual1": "2024-01-06T09:00:00Z"},
	})
	require.NoError(t, err)
	assert.Equal(t, "update", gotAction)
	assert.Equal(t, "INDENT", gotSheet)
	require.Len(t, gotRows, 1)
	assert.Equal(t, "SI-0001", gotRows[0]["indentNumber"])

	t.Run("writes are not retried", func(t *testing.T) {
		var calls int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			http.Error(w, "busy", http.StatusServiceUnavailable)
		})
		err := c.Insert(context.Background(), domain.SheetIndent, []Row{{"indentNumber": "SI-0002"}})
		assert.True(t, errors.Is(err, ErrRemoteFailure))
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("empty write is a no-op", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})
		assert.NoError(t, c.Delete(context.Background(), domain.SheetIndent, nil))
	})
}

func TestAppScriptClient_Upload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "upload", r.FormValue("action"))
		assert.Equal(t, "bill.pdf", r.FormValue("fileName"))
		assert.Equal(t, "aGVsbG8=", r.FormValue("fileData"))
		assert.Equal(t, "email", r.FormValue("uploadType"))
		assert.Equal(t, "vendor@example.com", r.FormValue("email"))
		writeJSON(w, map[string]interface{}{"success": true, "fileUrl": "https://drive.example/f/1"})
	})

	fileURL, err := c.Upload(context.Background(), UploadRequest{
		FileName:   "bill.pdf",
		MimeType:   "application/pdf",
		Data:       []byte("hello"),
		FolderID:   "folder-1",
		UploadType: UploadTypeEmail,
		Email:      "vendor@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://drive.example/f/1", fileURL)
}
