package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default token lifetimes. Both can be overridden via configuration; these
// match the service defaults (60 minute access window, 7 day refresh window).
const (
	DefaultAccessTokenTTL  = 60 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Token type values carried in the token_type claim. Verification always
// checks the type so a refresh token can never be replayed as an access token
// (or the other way around).
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims are the claims embedded in both access and refresh tokens. Refresh
// tokens carry a jti that the blacklist is keyed on.
type Claims struct {
	jwt.RegisteredClaims

	// TokenType is "access" or "refresh".
	TokenType string `json:"token_type"`

	// Username of the bound account, for log and debugging visibility.
	Username string `json:"username,omitempty"`
}

// NewAccessClaims builds claims for a short-lived access token.
func NewAccessClaims(subject, username, issuer string, ttl time.Duration, now time.Time) Claims {
	return newClaims(TokenTypeAccess, subject, username, issuer, ttl, now)
}

// NewRefreshClaims builds claims for a refresh token with a fresh jti.
func NewRefreshClaims(subject, username, issuer string, ttl time.Duration, now time.Time) Claims {
	return newClaims(TokenTypeRefresh, subject, username, issuer, ttl, now)
}

func newClaims(tokenType, subject, username, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		TokenType: tokenType,
		Username:  username,
	}
}

// JTI returns the token's unique identifier.
func (c *Claims) JTI() string { return c.ID }

// ExpiresIn reports the remaining lifetime at the given instant. Zero or
// negative means already expired.
func (c *Claims) ExpiresIn(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(now)
}
