package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "indentdesk/internal/errors"
	"indentdesk/pkg/contracts/domain"
)

// InventoryHandler serves the store inventory and purchase orders
type InventoryHandler struct {
	inventory    InventoryService
	orders       PurchaseOrderService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewInventoryHandler creates an inventory handler
func NewInventoryHandler(inventory InventoryService, orders PurchaseOrderService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *InventoryHandler {
	return &InventoryHandler{
		inventory:    inventory,
		orders:       orders,
		logger:       logger.With(slog.String("handler", "inventory")),
		errorHandler: errorHandler,
	}
}

// Routes returns the inventory routes
func (h *InventoryHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Items)
	r.Get("/alerts", h.Alerts)
	return r
}

// PurchaseOrderRoutes returns the purchase order routes
func (h *InventoryHandler) PurchaseOrderRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.PurchaseOrders)
	r.Get("/{number}", h.PurchaseOrder)
	return r
}

// Items handles GET /api/v1/inventory?status=low_stock
func (h *InventoryHandler) Items(w http.ResponseWriter, r *http.Request) {
	status := domain.StockStatus(r.URL.Query().Get("status"))
	switch status {
	case "", domain.StockOut, domain.StockLow, domain.StockExcess, domain.StockIn:
	default:
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("status", "status must be one of out_of_stock, low_stock, excess, in_stock"))
		return
	}

	items, err := h.inventory.Items(r.Context(), status)
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	respond(w, r, http.StatusOK, items)
}

// Alerts handles GET /api/v1/inventory/alerts
func (h *InventoryHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.inventory.Alerts(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	respond(w, r, http.StatusOK, alerts)
}

// PurchaseOrders handles GET /api/v1/purchase-orders
func (h *InventoryHandler) PurchaseOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	respond(w, r, http.StatusOK, orders)
}

// PurchaseOrder handles GET /api/v1/purchase-orders/{number}
func (h *InventoryHandler) PurchaseOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	respond(w, r, http.StatusOK, order)
}
