package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lockboxlabs/gatekey/internal/auth/app"
	"github.com/lockboxlabs/gatekey/pkg/authapi"
	"github.com/lockboxlabs/gatekey/pkg/jwtx"
)

/*
 * Common helpers for gatekey end-to-end tests. The whole application is
 * wired the same way main does it, then served in-process with httptest so
 * the tests exercise the real middleware chain, router, services, and
 * sqlite store over actual HTTP.
 */

const testSecretKey = "e2e-secret-key-0123456789abcdef-pad"

// newTestApp builds a fully wired application on a throwaway database and
// returns an API client pointed at it.
func newTestApp(t *testing.T) *authapi.Client {
	t.Helper()

	// Generous limits so functional tests never trip the limiter. Tests that
	// exercise the limiter set tighter values before calling newTestApp.
	for key, value := range map[string]string{
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
	} {
		if os.Getenv(key) == "" {
			t.Setenv(key, value)
		}
	}

	cfg := app.Config{
		SecretKey:            testSecretKey,
		Issuer:               "gatekey-e2e",
		AccessTokenLifetime:  jwtx.DefaultAccessTokenTTL,
		RefreshTokenLifetime: jwtx.DefaultRefreshTokenTTL,
		RotateRefreshTokens:  true,
		BlacklistAfterRotate: true,
		DatabaseFile:         filepath.Join(t.TempDir(), "e2e.db"),
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "text",
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
	}

	application, err := app.New(cfg)
	require.NoError(t, err)

	server := httptest.NewServer(application.Handler())
	t.Cleanup(server.Close)

	return authapi.NewClient(server.URL)
}

func registerRequest(username string) authapi.RegisterRequest {
	return authapi.RegisterRequest{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "Sup3rS3cretPass!",
		Password2: "Sup3rS3cretPass!",
		FirstName: "Test",
		LastName:  "User",
	}
}

// registerUser registers an account and fails the test on any error.
func registerUser(t *testing.T, client *authapi.Client, username string) *authapi.RegisterResponse {
	t.Helper()

	resp, err := client.Register(context.Background(), registerRequest(username))
	require.NoError(t, err)
	return resp
}

// postRawJSON PUTs an arbitrary JSON body at a path, bypassing the typed
// client, for tests that need to send fields the API does not define.
func postRawJSON(t *testing.T, client *authapi.Client, path, accessToken string, body map[string]any, out any) error {
	t.Helper()

	encoded, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, client.BaseURL+path, bytes.NewReader(encoded))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := client.HTTPClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if resp.StatusCode != http.StatusOK {
		var apiErr authapi.APIError
		if jsonErr := json.Unmarshal(raw, &apiErr); jsonErr == nil && apiErr.Code != "" {
			apiErr.StatusCode = resp.StatusCode
			return &apiErr
		}
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, raw)
	}

	return json.Unmarshal(raw, out)
}
