package http

import (
	"errors"
	"net/http"

	"github.com/lockboxlabs/gatekey/internal/auth/service"
	"github.com/lockboxlabs/gatekey/pkg/authapi"
	"github.com/lockboxlabs/gatekey/pkg/httpx"
)

// LogoutHandler serves POST /v1/auth/logout. The caller must be
// authenticated and supply the refresh token to revoke; access tokens stay
// valid until they expire on their own.
type LogoutHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Log out
//	@Description	Blacklists the supplied refresh token so it can no longer be used or rotated.
//	@Description	Logout is idempotent: revoking an already revoked token still returns 200.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authapi.LogoutRequest	true	"Refresh token to revoke"
//	@Success		200		{object}	authapi.LogoutResponse	"message"
//	@Failure		400		{object}	authapi.APIError		"error, error_description"
//	@Failure		401		{object}	authapi.APIError		"error, error_description"
//	@Failure		429		{object}	authapi.APIError		"error, error_description"
//	@Failure		500		{object}	authapi.APIError		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authapi.LogoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.Refresh == "" {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	// A refresh token that fails verification here is a bad request, not an
	// authentication failure: the caller already holds a valid access token.
	if err := h.TokenService.Revoke(ctx, req.Refresh); err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			authapi.ErrInvalidRequest.WriteError(w)
			return
		}
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.LogoutResponse{
		Message: "Logout successful",
	})
}
