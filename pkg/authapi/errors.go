package authapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lockboxlabs/gatekey/pkg/httpx"
)

// API error codes. These appear in the "error" field of error responses.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeValidationFailed   = "validation_failed"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeAccountDisabled    = "account_disabled"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeConflict           = "conflict"
	ErrorCodeServerError        = "server_error"
)

// APIError is the error shape every GateKey endpoint returns on failure.
// It implements the error interface and is used both by the server (to write
// HTTP responses) and by the client (to represent decoded errors).
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g. "invalid_credentials")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`

	// Fields carries per-field validation messages for validation_failed
	// responses, keyed by the JSON field name.
	Fields map[string]string `json:"fields,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is lets errors.Is match decoded client errors against the predefined
// values by code rather than pointer identity.
func (e *APIError) Is(target error) bool {
	other, ok := target.(*APIError)
	return ok && other.Code == e.Code
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

// Predefined API errors.
var (
	// ErrInvalidRequest is returned when the request body is malformed or
	// a required parameter is missing.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrMissingCredentials is returned when a login or token request omits
	// the username or password.
	ErrMissingCredentials = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "Must provide username and password",
	}

	// ErrInvalidCredentials is returned when the username or password does
	// not match an account. The description deliberately does not say which.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid username or password",
	}

	// ErrAccountDisabled is returned when the credentials are correct but
	// the account has been deactivated.
	ErrAccountDisabled = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeAccountDisabled,
		Description: "User account is disabled",
	}

	// ErrInvalidToken is returned when a token is malformed, expired,
	// blacklisted, or of the wrong type.
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "token is invalid or expired",
	}

	// ErrUsernameTaken is returned when registration asks for a username
	// that already exists.
	ErrUsernameTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConflict,
		Description: "a user with that username already exists",
	}

	// ErrServerError is returned when the service encountered an unexpected
	// condition that prevented it from fulfilling the request.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// NewValidationError builds a 400 validation_failed error carrying per-field
// messages.
func NewValidationError(fields map[string]string) *APIError {
	return &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeValidationFailed,
		Description: "one or more fields failed validation",
		Fields:      fields,
	}
}
