package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"indentdesk/internal/auth"
	apierrors "indentdesk/internal/errors"
	"indentdesk/internal/services"
	"indentdesk/internal/sheets"
	api "indentdesk/pkg/contracts/api/v1"
)

const statusSuccess = "success"

func respond(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	render.Status(r, status)
	render.JSON(w, r, api.Envelope{Status: statusSuccess, Data: data})
}

// serviceError maps service and store sentinels to API errors. Unknown
// errors pass through and become 500s.
func serviceError(err error) error {
	var apiErr *apierrors.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, services.ErrIndentNotFound):
		return apierrors.NewWithDetails(http.StatusNotFound, apierrors.CodeIndentNotFound, "Indent not found", err.Error())
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrUserNotFound):
		return apierrors.NewWithDetails(http.StatusNotFound, apierrors.CodeNotFound, "Resource not found", err.Error())
	case errors.Is(err, services.ErrInvalidStage):
		return apierrors.ErrValidation("stage", err.Error())
	case errors.Is(err, services.ErrNotPending):
		return apierrors.NewWithDetails(http.StatusConflict, apierrors.CodeConflict, "Indent is not pending in this stage", err.Error())
	case errors.Is(err, services.ErrInvalidVendorSelection),
		errors.Is(err, services.ErrNoProducts),
		errors.Is(err, services.ErrInvalidDecision),
		errors.Is(err, services.ErrInvalidInput):
		return apierrors.NewWithDetails(http.StatusBadRequest, apierrors.CodeValidationFailed, "Request validation failed", err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return apierrors.New(http.StatusUnauthorized, apierrors.CodeInvalidCredentials, "Invalid username or password")
	case errors.Is(err, services.ErrForbidden):
		return apierrors.ErrForbidden
	case errors.Is(err, sheets.ErrReadOnly):
		return apierrors.NewWithDetails(http.StatusNotImplemented, apierrors.CodeServiceUnavailable, "The configured store backend is read-only", err.Error())
	case errors.Is(err, services.ErrStoreUnavailable), errors.Is(err, sheets.ErrRemoteFailure):
		return apierrors.StoreUnavailable(err)
	default:
		return err
	}
}

// username returns the signed-in user's name, or "" on public routes
func username(r *http.Request) string {
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		return claims.Username
	}
	return ""
}
