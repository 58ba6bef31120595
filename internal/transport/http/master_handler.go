package http

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	apierrors "indentdesk/internal/errors"
)

// MasterHandler serves the MASTER sheet options
type MasterHandler struct {
	service      MasterService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewMasterHandler creates a master data handler
func NewMasterHandler(service MasterService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *MasterHandler {
	return &MasterHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "master")),
		errorHandler: errorHandler,
	}
}

// Routes returns the master data routes
func (h *MasterHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Options)
	r.Get("/vendors/{name}", h.Vendor)
	return r
}

// Options handles GET /api/v1/master
func (h *MasterHandler) Options(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.Options(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	respond(w, r, http.StatusOK, opts)
}

// Vendor handles GET /api/v1/master/vendors/{name}
func (h *MasterHandler) Vendor(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("name", "vendor name is not a valid path segment"))
		return
	}
	vendor, err := h.service.Vendor(r.Context(), name)
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	respond(w, r, http.StatusOK, vendor)
}
