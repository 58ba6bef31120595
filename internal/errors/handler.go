package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"indentdesk/internal/infrastructure"
)

// Problem types following RFC 7807
const (
	TypeValidation       = "/errors/validation"
	TypeNotFound         = "/errors/not-found"
	TypeUnauthorized     = "/errors/unauthorized"
	TypeForbidden        = "/errors/forbidden"
	TypeRateLimit        = "/errors/rate-limit"
	TypeInternal         = "/errors/internal"
	TypeServiceDown      = "/errors/service-unavailable"
	TypeTimeout          = "/errors/timeout"
	TypeConflict         = "/errors/conflict"
	TypeMethodNotAllowed = "/errors/method-not-allowed"
	TypeStoreFailure     = "/errors/store/unavailable"
	TypeIndentNotFound   = "/errors/indent/not-found"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	problem := h.ErrorToProblem(err, r)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("request_id", problem.TraceID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	if h.includeStack && problem.Status >= http.StatusInternalServerError {
		problem.Stack = getStackTrace()
	}

	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return newProblem(r, http.StatusGatewayTimeout, TypeTimeout, "Request Timeout",
			"The request took too long to process and was cancelled")
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return h.apiErrorToProblem(apiErr, r)
	}

	return newProblem(r, http.StatusInternalServerError, TypeInternal, "",
		"An unexpected error occurred while processing your request")
}

func (h *ErrorHandler) apiErrorToProblem(apiErr *APIError, r *http.Request) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case CodeValidationFailed, CodeInvalidRequest:
		problemType = TypeValidation
	case CodeNotFound:
		problemType = TypeNotFound
	case CodeIndentNotFound:
		problemType = TypeIndentNotFound
	case CodeUnauthorized, CodeInvalidCredentials:
		problemType = TypeUnauthorized
	case CodeForbidden:
		problemType = TypeForbidden
	case CodeConflict:
		problemType = TypeConflict
	case CodeRateLimitExceeded:
		problemType = TypeRateLimit
	case CodeStoreUnavailable:
		problemType = TypeStoreFailure
	case CodeServiceUnavailable:
		problemType = TypeServiceDown
	}

	problem := newProblem(r, apiErr.StatusCode, problemType, "", apiErr.Message)
	problem.ErrorCode = apiErr.ErrorCode
	problem.Details = apiErr.Details
	return problem
}

// HandlePanic writes a 500 problem for a recovered panic
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	problem := newProblem(r, http.StatusInternalServerError, TypeInternal, "", "An unexpected error occurred")

	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("request_id", problem.TraceID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	if h.includeStack {
		problem.Panic = fmt.Sprintf("%v", recovered)
		problem.Stack = getStackTrace()
	}

	render.Render(w, r, problem)
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, newProblem(r, http.StatusNotFound, TypeNotFound, "",
		"The requested resource was not found"))
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, newProblem(r, http.StatusMethodNotAllowed, TypeMethodNotAllowed, "",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method)))
}

func requestTraceID(r *http.Request) string {
	if traceID := infrastructure.GetTraceID(r.Context()); traceID != "" {
		return traceID
	}
	return middleware.GetReqID(r.Context())
}

func getStackTrace() string {
	buf := make([]byte, 1024*8)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
