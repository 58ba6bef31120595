package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"indentdesk/internal/auth"
	api "indentdesk/pkg/contracts/api/v1"
	"indentdesk/pkg/contracts/domain"
)

// TokenIssuer signs and revokes session tokens
type TokenIssuer interface {
	Issue(profile domain.Profile) (string, time.Time, error)
	Revoke(ctx context.Context, token string, claims *auth.Claims) error
}

// AuthService signs USER sheet accounts in
type AuthService struct {
	reader *SheetReader
	tokens TokenIssuer
	logger *slog.Logger
}

// NewAuthService creates an auth service
func NewAuthService(reader *SheetReader, tokens TokenIssuer, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{reader: reader, tokens: tokens, logger: logger.With(slog.String("service", "auth"))}
}

// Login checks the credentials against the USER sheet and issues a token.
// Unknown users and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, req api.LoginRequest) (api.TokenResponse, error) {
	user, err := s.find(ctx, req.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.logger.WarnContext(ctx, "login failed", slog.String("username", req.Username), slog.String("reason", "unknown user"))
			return api.TokenResponse{}, ErrInvalidCredentials
		}
		return api.TokenResponse{}, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.WarnContext(ctx, "login failed", slog.String("username", req.Username), slog.String("reason", "wrong password"))
		return api.TokenResponse{}, ErrInvalidCredentials
	}

	profile := profileOf(user)
	token, expires, err := s.tokens.Issue(profile)
	if err != nil {
		return api.TokenResponse{}, fmt.Errorf("failed to issue token: %w", err)
	}

	if !auth.IsHashed(user.Password) {
		s.logger.InfoContext(ctx, "user signed in with a plaintext password", slog.String("username", user.Username))
	}
	s.logger.InfoContext(ctx, "user signed in", slog.String("username", user.Username))
	return api.TokenResponse{Token: token, ExpiresAt: expires, User: profile}, nil
}

// Me returns the current profile of username as the USER sheet has it now
func (s *AuthService) Me(ctx context.Context, username string) (domain.Profile, error) {
	user, err := s.find(ctx, username)
	if err != nil {
		return domain.Profile{}, err
	}
	return profileOf(user), nil
}

// Logout revokes token until it would have expired
func (s *AuthService) Logout(ctx context.Context, token string, claims *auth.Claims) error {
	if err := s.tokens.Revoke(ctx, token, claims); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.logger.InfoContext(ctx, "user signed out", slog.String("username", claims.Username))
	return nil
}

func (s *AuthService) find(ctx context.Context, username string) (domain.User, error) {
	username = strings.TrimSpace(username)
	users, err := readSheet[domain.User](ctx, s.reader, domain.SheetUser)
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if u.Username != "" && u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, ErrUserNotFound
}

func profileOf(u domain.User) domain.Profile {
	name := u.Name
	if name == "" {
		name = u.Username
	}
	return domain.Profile{Username: u.Username, Name: name, Permissions: u.Permissions()}
}
