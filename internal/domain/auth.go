package domain

import "time"

// TokenType differentiates access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// CredentialPair is the token pair handed out on login and refresh.
type CredentialPair struct {
	Access           string
	AccessExpiresAt  time.Time
	Refresh          string
	RefreshExpiresAt time.Time
}

// Identity is the verified subject of a token.
type Identity struct {
	UserID string
	Role   Role
}
