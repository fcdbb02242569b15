package domain

import "time"

// TokenPair represents what the token endpoints return: a short-lived access
// JWT and a longer-lived refresh JWT.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RefreshToken models an outstanding refresh token record in the DB, keyed
// by the token's jti claim. The token itself is never stored.
type RefreshToken struct {
	JTI       string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// BlacklistEntry marks a refresh token as revoked. Entries are kept until
// the underlying token would have expired anyway, then purged.
type BlacklistEntry struct {
	JTI           string
	ExpiresAt     time.Time
	BlacklistedAt time.Time
}
