package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indentdesk/internal/cache"
	"indentdesk/internal/config"
	"indentdesk/pkg/contracts/domain"
)

func newTestManager(t *testing.T) (*TokenManager, *cache.Memory) {
	t.Helper()
	revoked := cache.NewMemory(16)
	t.Cleanup(func() { _ = revoked.Close() })

	m := NewTokenManager(config.AuthConfig{
		JWTSecret: "unit-test-secret-0123456789",
		TokenTTL:  time.Hour,
		Issuer:    "indentdesk",
	}, revoked)
	return m, revoked
}

var storeKeeper = domain.Profile{
	Username:    "store.keeper",
	Name:        "Store Keeper",
	Permissions: []domain.Permission{domain.PermDashboard, domain.PermStoreOutApprovalView},
}

func TestTokenManager_IssueVerify(t *testing.T) {
	m, _ := newTestManager(t)

	token, expires, err := m.Issue(storeKeeper)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := m.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, storeKeeper, claims.Profile())
	assert.True(t, claims.Has(domain.PermStoreOutApprovalView))
	assert.False(t, claims.Has(domain.PermCreatePO))
}

func TestTokenManager_Rejects(t *testing.T) {
	m, _ := newTestManager(t)
	token, _, err := m.Issue(storeKeeper)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later, _ := newTestManager(t)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Verify(context.Background(), token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenManager(config.AuthConfig{JWTSecret: "another-secret-0123456789", TokenTTL: time.Hour, Issuer: "indentdesk"}, nil)
		_, err := other.Verify(context.Background(), token)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewTokenManager(config.AuthConfig{JWTSecret: "unit-test-secret-0123456789", TokenTTL: time.Hour, Issuer: "someone-else"}, nil)
		_, err := other.Verify(context.Background(), token)
		assert.Error(t, err)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Username: "admin"})
		s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.Verify(context.Background(), s)
		assert.Error(t, err)
	})
}

func TestTokenManager_Revoke(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	token, _, err := m.Issue(storeKeeper)
	require.NoError(t, err)
	claims, err := m.Verify(ctx, token)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, token, claims))

	_, err = m.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestTokenManager_OwnRevocationListKeepsEveryEntry(t *testing.T) {
	m := NewTokenManager(config.AuthConfig{
		JWTSecret: "unit-test-secret-0123456789",
		TokenTTL:  time.Hour,
		Issuer:    "indentdesk",
	}, nil)
	t.Cleanup(func() { _ = m.Close() })
	ctx := context.Background()

	first, _, err := m.Issue(storeKeeper)
	require.NoError(t, err)
	require.NoError(t, m.Revoke(ctx, first, nil))

	for i := 0; i < 200; i++ {
		token, _, err := m.Issue(domain.Profile{Username: fmt.Sprintf("user%03d", i)})
		require.NoError(t, err)
		require.NoError(t, m.Revoke(ctx, token, nil))
	}

	_, err = m.Verify(ctx, first)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestClaims_AdministratorHasEverything(t *testing.T) {
	c := &Claims{Permissions: []domain.Permission{domain.PermDashboard, domain.PermAdministrate}}
	assert.True(t, c.Has(domain.PermCreatePO))
}

func TestCheckPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, IsHashed(hashed))

	tests := []struct {
		name     string
		stored   string
		password string
		want     bool
	}{
		{name: "bcrypt match", stored: hashed, password: "s3cret!", want: true},
		{name: "bcrypt mismatch", stored: hashed, password: "s3cret", want: false},
		{name: "plain match", stored: "pass123", password: "pass123", want: true},
		{name: "plain mismatch", stored: "pass123", password: "pass1234", want: false},
		{name: "empty attempt", stored: "pass123", password: "", want: false},
		{name: "empty cell", stored: "", password: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckPassword(tt.stored, tt.password))
		})
	}
}

func TestClaimsContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithClaims(context.Background(), &Claims{Username: "u"})
	claims, ok := ClaimsFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u", claims.Username)
}
