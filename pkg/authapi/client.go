package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is an HTTP client for the GateKey authentication service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates a new account and returns it together with an initial
// token pair.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.postJSON(ctx, "/v1/auth/register", "", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates with username and password.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var out LoginResponse
	req := LoginRequest{Username: username, Password: password}
	if err := c.postJSON(ctx, "/v1/auth/login", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Token authenticates with username and password and returns a bare token
// pair.
func (c *Client) Token(ctx context.Context, username, password string) (*TokenResponse, error) {
	var out TokenResponse
	req := TokenRequest{Username: username, Password: password}
	if err := c.postJSON(ctx, "/v1/auth/token", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges a refresh token for a new access token. When the server
// rotates refresh tokens the response also carries a replacement refresh
// token and the one passed in is no longer valid.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	var out RefreshResponse
	req := RefreshRequest{Refresh: refreshToken}
	if err := c.postJSON(ctx, "/v1/auth/token/refresh", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout blacklists the given refresh token.
func (c *Client) Logout(ctx context.Context, accessToken, refreshToken string) (*LogoutResponse, error) {
	var out LogoutResponse
	req := LogoutRequest{Refresh: refreshToken}
	if err := c.postJSON(ctx, "/v1/auth/logout", accessToken, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context, accessToken string) (*ProfileResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/auth/profile", accessToken, nil)
	if err != nil {
		return nil, err
	}

	var out ProfileResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile applies a partial update to the authenticated user's profile.
func (c *Client) UpdateProfile(ctx context.Context, accessToken string, req UpdateProfileRequest) (*UpdateProfileResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPut, "/v1/auth/profile", accessToken, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var out UpdateProfileResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Livez reports whether the service process is up.
func (c *Client) Livez(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, "/livez", "", nil)
	if err != nil {
		return err
	}
	var out HealthResponse
	return decodeJSON(resp, &out, http.StatusOK)
}

// Readyz reports whether the service's dependencies are reachable.
func (c *Client) Readyz(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, "/readyz", "", nil)
	if err != nil {
		return err
	}
	var out HealthResponse
	return decodeJSON(resp, &out, http.StatusOK)
}

// postJSON sends a JSON POST and decodes the response into out.
func (c *Client) postJSON(ctx context.Context, path, accessToken string, in, out any, expectedStatus int) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, path, accessToken, bytes.NewReader(body))
	if err != nil {
		return err
	}

	return decodeJSON(resp, out, expectedStatus)
}

// doRequest performs an HTTP request, setting the Authorization header when
// an access token is supplied.
func (c *Client) doRequest(ctx context.Context, method, path, accessToken string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

// decodeJSON decodes a JSON response into target, converting non-success
// responses into typed *APIError values.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp.StatusCode, bodyBytes)
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// parseErrorResponse converts an error response body into an *APIError. A
// body that doesn't parse still produces a typed error carrying the status.
func parseErrorResponse(statusCode int, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Code == "" {
		return &APIError{
			StatusCode:  statusCode,
			Code:        ErrorCodeServerError,
			Description: fmt.Sprintf("unexpected response (status %d)", statusCode),
		}
	}

	apiErr.StatusCode = statusCode
	return &apiErr
}
