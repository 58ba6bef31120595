package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "indentdesk/internal/errors"
	"indentdesk/internal/middleware"
	"indentdesk/internal/services"
	api "indentdesk/pkg/contracts/api/v1"
)

// maxUploadBody allows a base64 encoded attachment of MaxUploadBytes plus
// the JSON around it
const maxUploadBody = services.MaxUploadBytes*4/3 + 64<<10

// UploadHandler stores attachments
type UploadHandler struct {
	service      UploadService
	validator    *middleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewUploadHandler creates an upload handler
func NewUploadHandler(service UploadService, validator *middleware.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *UploadHandler {
	return &UploadHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("handler", "uploads")),
		errorHandler: errorHandler,
	}
}

// Upload handles POST /api/v1/uploads
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)

	var req api.UploadRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.HandleError(w, r, apierrors.New(http.StatusRequestEntityTooLarge, apierrors.CodeInvalidRequest, "Attachment is too large"))
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp, err := h.service.Upload(r.Context(), req, username(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	respond(w, r, http.StatusCreated, resp)
}
