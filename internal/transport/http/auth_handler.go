package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"indentdesk/internal/auth"
	apierrors "indentdesk/internal/errors"
	"indentdesk/internal/middleware"
	api "indentdesk/pkg/contracts/api/v1"
)

// AuthHandler serves sign-in, sign-out and the current profile
type AuthHandler struct {
	service      AuthService
	validator    *middleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(service AuthService, validator *middleware.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AuthHandler {
	return &AuthHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("handler", "auth")),
		errorHandler: errorHandler,
	}
}

// Routes returns the auth routes. Login is public; the other routes run
// behind requireAuth.
func (h *AuthHandler) Routes(requireAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	r.With(requireAuth).Get("/me", h.Me)
	r.With(requireAuth).Post("/logout", h.Logout)
	return r
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := h.validator.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	token, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	respond(w, r, http.StatusOK, token)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.ErrUnauthorized)
		return
	}

	profile, err := h.service.Me(r.Context(), claims.Username)
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	respond(w, r, http.StatusOK, profile)
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	token, hasToken := middleware.BearerToken(r)
	if !ok || !hasToken {
		h.errorHandler.HandleError(w, r, apierrors.ErrUnauthorized)
		return
	}

	if err := h.service.Logout(r.Context(), token, claims); err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}
	respond(w, r, http.StatusOK, map[string]string{"username": claims.Username})
}
