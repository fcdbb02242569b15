package http

import (
	"net/http"

	"github.com/lockboxlabs/gatekey/internal/auth/service"
	"github.com/lockboxlabs/gatekey/pkg/authapi"
	"github.com/lockboxlabs/gatekey/pkg/httpx"
)

// RefreshHandler serves POST /v1/auth/token/refresh.
type RefreshHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Refresh an access token
//	@Description	Exchanges a valid refresh token for a new access token. When rotation is enabled
//	@Description	the response also contains a replacement refresh token and the presented one stops working.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authapi.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	authapi.RefreshResponse	"access, refresh"
//	@Failure		400		{object}	authapi.APIError		"error, error_description"
//	@Failure		401		{object}	authapi.APIError		"error, error_description"
//	@Failure		429		{object}	authapi.APIError		"error, error_description"
//	@Failure		500		{object}	authapi.APIError		"error, error_description"
//	@Router			/v1/auth/token/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authapi.RefreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.Refresh == "" {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.TokenService.Refresh(ctx, req.Refresh)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.RefreshResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}
