package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AuthService issues, refreshes and revokes session credentials.
type AuthService struct {
	users    repository.UserRepository
	revoked  repository.RevocationRepository
	tokenMgr *auth.TokenManager
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo       repository.UserRepository
	RevocationRepo repository.RevocationRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:    deps.UserRepo,
		revoked:  deps.RevocationRepo,
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL()),
	}
}

// NewAuthServiceWithTokens builds the service around an existing token
// manager.
func NewAuthServiceWithTokens(tokens *auth.TokenManager, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:    deps.UserRepo,
		revoked:  deps.RevocationRepo,
		tokenMgr: tokens,
	}
}

// Login authenticates an account and issues a credential pair. Unknown email
// and wrong password are indistinguishable to the caller. When expectedRole
// is non-empty it is compared case-insensitively against the account role
// after password verification; the blocked check runs last.
func (s *AuthService) Login(ctx context.Context, email, password, expectedRole string) (*domain.User, *domain.CredentialPair, error) {
	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewInvalidCredentials()
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, apperrors.NewAccountDisabled()
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewInvalidCredentials()
	}
	if expectedRole != "" {
		role, ok := domain.ParseRole(expectedRole)
		if !ok || role != user.Role {
			return nil, nil, apperrors.NewRoleMismatch()
		}
	}
	if user.IsBlocked {
		return nil, nil, apperrors.NewAccountBlocked()
	}

	pair, err := s.tokenMgr.GeneratePair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh rotates a refresh token: the presented token is revoked in the
// same call that issues the replacement pair, so replaying it afterwards
// always fails.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.CredentialPair, error) {
	claims, err := s.parseRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewTokenInvalid()
		}
		return nil, err
	}
	// A refresh mints a new session; blocked or disabled accounts may not
	// obtain one even with a live refresh token.
	if !user.IsActive {
		return nil, apperrors.NewAccountDisabled()
	}
	if user.IsBlocked {
		return nil, apperrors.NewAccountBlocked()
	}

	if err := s.revoked.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return nil, err
	}
	return s.tokenMgr.GeneratePair(user)
}

// Logout revokes the presented refresh token. A missing token is a client
// error, not silently ignored. The paired access token stays valid until
// natural expiry; only refresh tokens enter the revocation set.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return apperrors.NewValidationError("refresh token required", map[string]any{"field": "refresh"})
	}
	claims, err := s.parseRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	return s.revoked.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}

// Verify validates an access token and returns the bearer's identity.
func (s *AuthService) Verify(ctx context.Context, accessToken string) (*domain.Identity, error) {
	claims, err := s.tokenMgr.Parse(accessToken, domain.TokenTypeAccess)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperrors.NewTokenExpired()
		}
		return nil, apperrors.NewTokenInvalid()
	}
	return &domain.Identity{UserID: claims.Subject, Role: claims.Role}, nil
}

func (s *AuthService) parseRefresh(ctx context.Context, refreshToken string) (*auth.Claims, error) {
	claims, err := s.tokenMgr.Parse(refreshToken, domain.TokenTypeRefresh)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperrors.NewTokenExpired()
		}
		return nil, apperrors.NewTokenInvalid()
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperrors.NewTokenInvalid()
	}
	return claims, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
