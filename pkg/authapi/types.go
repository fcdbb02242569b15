package authapi

// ============================================================================
// Shared Payloads
// ============================================================================

// UserPayload is the public representation of a user account. It appears in
// registration, login, token, and profile responses. The password hash is
// never serialized.
type UserPayload struct {
	// ID is the unique identifier of the account (ULID)
	ID string `json:"id"`

	// Username is the unique login name
	Username string `json:"username"`

	// Email is the contact address; may be empty and is not unique
	Email string `json:"email"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// IsActive reports whether the account may authenticate
	IsActive bool `json:"is_active"`

	// DateJoined is the account creation time in RFC 3339 format
	DateJoined string `json:"date_joined"`
}

// TokenPairPayload carries a freshly issued access and refresh token.
type TokenPairPayload struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// ============================================================================
// Registration
// ============================================================================

// RegisterRequest is the body of POST /v1/auth/register.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RegisterResponse is returned with status 201 on successful registration.
type RegisterResponse struct {
	Message string           `json:"message"`
	User    UserPayload      `json:"user"`
	Tokens  TokenPairPayload `json:"tokens"`
}

// ============================================================================
// Login / Logout
// ============================================================================

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned with status 200 on successful login.
type LoginResponse struct {
	Message string           `json:"message"`
	User    UserPayload      `json:"user"`
	Tokens  TokenPairPayload `json:"tokens"`
}

// LogoutRequest is the body of POST /v1/auth/logout. The refresh token to
// revoke must be supplied explicitly.
type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

// LogoutResponse is returned with status 200 once the refresh token has been
// blacklisted. Logout is idempotent, so revoking an already revoked token
// still succeeds.
type LogoutResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Token Obtain / Refresh
// ============================================================================

// TokenRequest is the body of POST /v1/auth/token. It authenticates with
// credentials and returns a token pair without the login message wrapper.
type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned with status 200 from the token endpoint.
type TokenResponse struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    UserPayload `json:"user"`
}

// RefreshRequest is the body of POST /v1/auth/token/refresh.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse is returned with status 200 from the refresh endpoint.
// Refresh is only present when rotation is enabled on the server.
type RefreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// ============================================================================
// Profile
// ============================================================================

// ProfileResponse is returned from GET /v1/auth/profile.
type ProfileResponse struct {
	User UserPayload `json:"user"`
}

// UpdateProfileRequest is the body of PUT /v1/auth/profile. All fields are
// optional; absent fields are left unchanged. Read-only attributes (id,
// username, date_joined) sent by clients are ignored rather than rejected.
type UpdateProfileRequest struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// UpdateProfileResponse is returned with status 200 after a profile update.
type UpdateProfileResponse struct {
	Message string      `json:"message"`
	User    UserPayload `json:"user"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse is returned from the health endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency status for the readiness probe.
type HealthChecks struct {
	Database string `json:"database"`
	Cache    string `json:"cache,omitempty"`
}
