package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockboxlabs/gatekey/pkg/authapi"
)

func TestProfile_Get(t *testing.T) {
	client := newTestApp(t)
	ctx := context.Background()

	registered := registerUser(t, client, "alice")

	profile, err := client.Profile(ctx, registered.Tokens.Access)
	require.NoError(t, err)

	assert.Equal(t, registered.User.ID, profile.User.ID)
	assert.Equal(t, "alice", profile.User.Username)
	assert.Equal(t, "alice@example.com", profile.User.Email)
	assert.Equal(t, "Test", profile.User.FirstName)
	assert.Equal(t, "User", profile.User.LastName)
}

func TestProfile_RequiresToken(t *testing.T) {
	client := newTestApp(t)
	ctx := context.Background()

	registerUser(t, client, "alice")

	tests := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"garbage token", "garbage.token.here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Profile(ctx, tt.token)

			var apiErr *authapi.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, 401, apiErr.StatusCode)
		})
	}
}

func TestProfile_RejectsRefreshToken(t *testing.T) {
	client := newTestApp(t)
	ctx := context.Background()

	registered := registerUser(t, client, "alice")

	// Refresh tokens must not work as access tokens.
	_, err := client.Profile(ctx, registered.Tokens.Refresh)

	var apiErr *authapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
}

func TestProfile_Update(t *testing.T) {
	client := newTestApp(t)
	ctx := context.Background()

	registered := registerUser(t, client, "alice")

	email := "new@example.com"
	first := "Alicia"
	resp, err := client.UpdateProfile(ctx, registered.Tokens.Access, authapi.UpdateProfileRequest{
		Email:     &email,
		FirstName: &first,
	})
	require.NoError(t, err)

	assert.Equal(t, "Profile updated successfully", resp.Message)
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.Equal(t, "Alicia", resp.User.FirstName)
	// Fields absent from the request are untouched.
	assert.Equal(t, "User", resp.User.LastName)

	// The update persisted.
	profile, err := client.Profile(ctx, registered.Tokens.Access)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", profile.User.Email)
}

func TestProfile_Update_ReadOnlyFieldsIgnored(t *testing.T) {
	client := newTestApp(t)

	registered := registerUser(t, client, "alice")

	// Unknown fields, including read-only attributes, are silently dropped
	// rather than rejected.
	var resp authapi.UpdateProfileResponse
	err := postRawJSON(t, client, "/v1/auth/profile", registered.Tokens.Access, map[string]any{
		"id":          "hijacked-id",
		"username":    "hijacked",
		"date_joined": "1970-01-01T00:00:00Z",
		"last_name":   "Walker",
	}, &resp)
	require.NoError(t, err)

	assert.Equal(t, registered.User.ID, resp.User.ID)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, registered.User.DateJoined, resp.User.DateJoined)
	assert.Equal(t, "Walker", resp.User.LastName)
}

func TestProfile_Update_BadEmail(t *testing.T) {
	client := newTestApp(t)
	ctx := context.Background()

	registered := registerUser(t, client, "alice")

	bad := "not-an-email"
	_, err := client.UpdateProfile(ctx, registered.Tokens.Access, authapi.UpdateProfileRequest{
		Email: &bad,
	})

	var apiErr *authapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Contains(t, apiErr.Fields, "email")
}
