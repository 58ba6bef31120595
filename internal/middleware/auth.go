package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"indentdesk/internal/auth"
	apierrors "indentdesk/internal/errors"
	"indentdesk/internal/infrastructure"
	"indentdesk/pkg/contracts/domain"
)

// TokenVerifier validates session tokens
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid session token and stores the
// claims on the context. Browsers cannot set headers on a websocket
// handshake, so a token query parameter is accepted as a fallback.
func RequireAuth(verifier TokenVerifier, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := BearerToken(r)
			if !ok {
				logger.WarnContext(ctx, "missing or malformed authorization header",
					"method", r.Method,
					"path", r.URL.Path,
				)
				errorHandler.HandleError(w, r, apierrors.ErrUnauthorized)
				return
			}

			claims, err := verifier.Verify(ctx, token)
			if err != nil {
				logger.WarnContext(ctx, "authentication failed",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				errorHandler.HandleError(w, r, apierrors.New(http.StatusUnauthorized, apierrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			ctx = auth.WithClaims(ctx, claims)
			ctx = infrastructure.WithUsername(ctx, claims.Username)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission allows the request when the signed-in user holds any of
// perms. It must run after RequireAuth.
func RequirePermission(errorHandler *apierrors.ErrorHandler, perms ...domain.Permission) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFromContext(r.Context())
			if !ok {
				errorHandler.HandleError(w, r, apierrors.ErrUnauthorized)
				return
			}

			for _, perm := range perms {
				if claims.Has(perm) {
					next.ServeHTTP(w, r)
					return
				}
			}

			errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusForbidden,
				apierrors.CodeForbidden,
				"Access denied",
				map[string]interface{}{"required_any": perms},
			))
		})
	}
}

// BearerToken extracts the session token from the Authorization header or
// the token query parameter
func BearerToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, true
	}
	return "", false
}
