package http

import (
	"net/http"

	"github.com/lockboxlabs/gatekey/internal/auth/service"
	"github.com/lockboxlabs/gatekey/pkg/authapi"
	"github.com/lockboxlabs/gatekey/pkg/httpx"
	"github.com/lockboxlabs/gatekey/pkg/slogx"
)

// TokenHandler serves POST /v1/auth/token. It is the bare token-obtain
// endpoint: same authentication as login, but the response is just the pair
// plus the user, without the message wrapper.
type TokenHandler struct {
	UserService  *service.UserService
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Obtain a token pair
//	@Description	Authenticates a credential pair and returns access and refresh tokens directly.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authapi.TokenRequest	true	"Credentials"
//	@Success		200		{object}	authapi.TokenResponse	"access, refresh, user"
//	@Failure		400		{object}	authapi.APIError		"error, error_description"
//	@Failure		401		{object}	authapi.APIError		"error, error_description"
//	@Failure		429		{object}	authapi.APIError		"error, error_description"
//	@Failure		500		{object}	authapi.APIError		"error, error_description"
//	@Router			/v1/auth/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authapi.TokenRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	pair, err := h.TokenService.IssuePair(ctx, user)
	if err != nil {
		log.Error("token issue failed", "err", err)
		authapi.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.TokenResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		User:    userPayload(user),
	})
}
