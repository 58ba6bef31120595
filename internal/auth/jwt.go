// Package auth issues and verifies session tokens and checks USER sheet
// passwords.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"indentdesk/internal/cache"
	"indentdesk/internal/config"
	"indentdesk/pkg/contracts/domain"
)

// ErrTokenRevoked is returned for tokens invalidated by logout
var ErrTokenRevoked = errors.New("token has been revoked")

// Claims carries the signed-in user's profile
type Claims struct {
	Username    string              `json:"username"`
	Name        string              `json:"name"`
	Permissions []domain.Permission `json:"permissions"`
	jwt.RegisteredClaims
}

// Has reports whether the claims grant perm. Administrators hold every
// permission.
func (c *Claims) Has(perm domain.Permission) bool {
	for _, p := range c.Permissions {
		if p == perm || p == domain.PermAdministrate {
			return true
		}
	}
	return false
}

// Profile returns the public view of the claims
func (c *Claims) Profile() domain.Profile {
	return domain.Profile{Username: c.Username, Name: c.Name, Permissions: c.Permissions}
}

// TokenManager signs HS256 tokens and tracks revoked ones until they expire
type TokenManager struct {
	secret  []byte
	ttl     time.Duration
	issuer  string
	revoked cache.Cache
	owned   bool
	now     func() time.Time
}

// NewTokenManager creates a token manager. revoked must never evict an
// entry before its TTL; pass nil to keep revocations in process memory.
func NewTokenManager(cfg config.AuthConfig, revoked cache.Cache) *TokenManager {
	owned := false
	if revoked == nil {
		revoked = cache.NewMemory(cache.Unbounded)
		owned = true
	}
	return &TokenManager{
		secret:  []byte(cfg.JWTSecret),
		ttl:     cfg.TokenTTL,
		issuer:  cfg.Issuer,
		revoked: revoked,
		owned:   owned,
		now:     time.Now,
	}
}

// Close releases the revocation store when the manager created it
func (m *TokenManager) Close() error {
	if !m.owned {
		return nil
	}
	return m.revoked.Close()
}

// Issue signs a token for profile and returns it with its expiry
func (m *TokenManager) Issue(profile domain.Profile) (string, time.Time, error) {
	now := m.now()
	expires := now.Add(m.ttl)

	claims := &Claims{
		Username:    profile.Username,
		Name:        profile.Name,
		Permissions: profile.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   profile.Username,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// Verify parses and validates a token and rejects revoked ones
func (m *TokenManager) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	_, revoked, err := m.revoked.Get(ctx, revokedKey(tokenString))
	if err != nil {
		return nil, fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

// Revoke blacklists a token until it would have expired anyway
func (m *TokenManager) Revoke(ctx context.Context, tokenString string, claims *Claims) error {
	ttl := m.ttl
	if claims != nil && claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(m.now())
	}
	if ttl <= 0 {
		return nil
	}
	return m.revoked.Set(ctx, revokedKey(tokenString), []byte("revoked"), ttl)
}

func revokedKey(token string) string {
	hash := sha256.Sum256([]byte(token))
	return "revoked:" + hex.EncodeToString(hash[:])
}

type claimsKey struct{}

// WithClaims stores verified claims on the context
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims stored by WithClaims
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok && claims != nil
}
