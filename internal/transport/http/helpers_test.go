package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"indentdesk/internal/auth"
	"indentdesk/internal/cache"
	"indentdesk/internal/config"
	apierrors "indentdesk/internal/errors"
	"indentdesk/internal/middleware"
	"indentdesk/internal/services"
	"indentdesk/internal/sheets/sheetstest"
	"indentdesk/internal/shared/testutil"
	"indentdesk/pkg/contracts/domain"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

type harness struct {
	store  *sheetstest.Store
	tokens *auth.TokenManager
	router chi.Router
	logs   *testutil.BufferedSlogHandler
}

// newHarness wires real services over an in-memory store the same way the
// application router does
func newHarness(t *testing.T, store *sheetstest.Store) *harness {
	t.Helper()
	logger, logs := testutil.NewTestLogger(t)

	mem := cache.NewMemory(64)
	t.Cleanup(func() { _ = mem.Close() })

	tokens := auth.NewTokenManager(config.AuthConfig{
		JWTSecret: "handler-test-secret-0123",
		TokenTTL:  time.Hour,
		Issuer:    "indentdesk-test",
	}, mem)

	reader := services.NewSheetReader(store, mem, time.Minute, nil, logger)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	validator := middleware.NewValidator()
	requireAuth := middleware.RequireAuth(tokens, errorHandler, logger)

	authHandler := NewAuthHandler(services.NewAuthService(reader, tokens, logger), validator, logger, errorHandler)
	dashboardHandler := NewDashboardHandler(services.NewDashboardService(reader, nil, logger), logger, errorHandler)
	indentHandler := NewIndentHandler(services.NewIndentService(reader, nil, logger,
		services.WithClock(func() time.Time { return fixedNow })), validator, logger, errorHandler)
	inventoryHandler := NewInventoryHandler(services.NewInventoryService(reader, logger),
		services.NewPurchaseOrderService(reader, logger), logger, errorHandler)
	uploadHandler := NewUploadHandler(services.NewUploadService(store, "folder-1", logger), validator, logger, errorHandler)
	healthHandler := NewHealthHandler(services.NewHealthService("test", store, nil, time.Second, logger), logger)
	clientLogHandler := NewClientLogHandler(validator, logger, errorHandler)
	masterHandler := NewMasterHandler(services.NewMasterService(reader, logger), logger, errorHandler)

	r := chi.NewRouter()
	r.Get("/healthz", healthHandler.LivenessCheck)
	r.Get("/readyz", healthHandler.ReadinessCheck)
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(requireAuth))
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Mount("/dashboard", dashboardHandler.Routes())
			r.Mount("/export", dashboardHandler.ExportRoutes())
			r.Mount("/indents", indentHandler.Routes())
			r.Mount("/inventory", inventoryHandler.Routes())
			r.Mount("/purchase-orders", inventoryHandler.PurchaseOrderRoutes())
			r.Mount("/master", masterHandler.Routes())
			r.Post("/uploads", uploadHandler.Upload)
			r.Post("/logs", clientLogHandler.Handle)
		})
	})

	return &harness{store: store, tokens: tokens, router: r, logs: logs}
}

func (h *harness) token(t *testing.T, perms ...domain.Permission) string {
	t.Helper()
	token, _, err := h.tokens.Issue(domain.Profile{
		Username:    "tester",
		Name:        "Test User",
		Permissions: append([]domain.Permission{domain.PermDashboard}, perms...),
	})
	require.NoError(t, err)
	return token
}

func (h *harness) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

// envelope decodes a success envelope's data into dst
func envelope(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	var body struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	require.Equal(t, "success", body.Status)
	if dst != nil {
		require.NoError(t, json.Unmarshal(body.Data, dst))
	}
}

func problem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func boltIndent() domain.Indent {
	return domain.Indent{
		Timestamp:        "2024-01-05",
		IndentNumber:     "SI-0001",
		ProductName:      "Bolt",
		Quantity:         50,
		IndentType:       domain.IndentTypePurchase,
		Planned1:         "2024-01-05",
		Actual1:          "2024-01-06",
		VendorType:       domain.VendorTypeRegular,
		ApprovedQuantity: 50,
	}
}

func pendingApproval(number, product string) domain.Indent {
	return domain.Indent{
		Timestamp:    "2024-02-01",
		IndentNumber: number,
		ProductName:  product,
		Quantity:     10,
		IndentType:   domain.IndentTypePurchase,
		Planned1:     "2024-02-01",
	}
}
