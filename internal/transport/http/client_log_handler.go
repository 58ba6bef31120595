package http

import (
	"log/slog"
	"net/http"
	"strings"

	apierrors "indentdesk/internal/errors"
	"indentdesk/internal/middleware"
	api "indentdesk/pkg/contracts/api/v1"
)

// maxClientMessage truncates runaway browser log lines
const maxClientMessage = 2048

var clientLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ClientLogHandler records log lines sent by the browser front end
type ClientLogHandler struct {
	validator    *middleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewClientLogHandler creates a new client log handler
func NewClientLogHandler(validator *middleware.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ClientLogHandler {
	return &ClientLogHandler{
		validator:    validator,
		logger:       logger.With(slog.String("handler", "client_log")),
		errorHandler: errorHandler,
	}
}

// Handle handles POST /api/v1/logs
func (h *ClientLogHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req api.ClientLogRequest
	if err := h.validator.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("message", "message is required"))
		return
	}
	if len(message) > maxClientMessage {
		message = message[:maxClientMessage]
	}

	level, ok := clientLevels[req.Level]
	if !ok {
		level = slog.LevelInfo
	}

	attrs := []slog.Attr{
		slog.String("source", "browser"),
		slog.String("username", username(r)),
	}
	if req.Page != "" {
		attrs = append(attrs, slog.String("page", req.Page))
	}
	if req.IndentNumber != "" {
		attrs = append(attrs, slog.String("indent_number", req.IndentNumber))
	}
	if len(req.Data) > 0 {
		attrs = append(attrs, slog.Any("data", req.Data))
	}
	h.logger.LogAttrs(r.Context(), level, message, attrs...)

	respond(w, r, http.StatusAccepted, nil)
}
