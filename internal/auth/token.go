package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Sentinel errors surfaced by token parsing. Callers map these onto the
// client-facing error taxonomy.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenManager issues and validates the access/refresh JWT pair.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Claims describes the JWT payload. Type keeps access tokens off refresh
// paths and vice versa; ID (jti) identifies a refresh token in the
// revocation set.
type Claims struct {
	Role domain.Role      `json:"role"`
	Type domain.TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// GeneratePair signs a fresh access/refresh pair for the user. Every call
// produces new JTIs, so rotation never reuses a token.
func (tm *TokenManager) GeneratePair(user *domain.User) (*domain.CredentialPair, error) {
	access, accessExp, err := tm.generate(user, domain.TokenTypeAccess, tm.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := tm.generate(user, domain.TokenTypeRefresh, tm.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &domain.CredentialPair{
		Access:           access,
		AccessExpiresAt:  accessExp,
		Refresh:          refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (tm *TokenManager) generate(user *domain.User, typ domain.TokenType, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Role: user.Role,
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse validates a token of the expected type and returns its claims.
// Expiry is reported distinctly from every other failure.
func (tm *TokenManager) Parse(tokenStr string, want domain.TokenType) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Type != want {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// RefreshTTL exposes the refresh token lifetime for revocation bookkeeping.
func (tm *TokenManager) RefreshTTL() time.Duration {
	return tm.refreshTTL
}
