package http

import (
	"net/http"

	"github.com/lockboxlabs/gatekey/internal/auth/service"
	"github.com/lockboxlabs/gatekey/pkg/authapi"
	"github.com/lockboxlabs/gatekey/pkg/httpx"
	"github.com/lockboxlabs/gatekey/pkg/slogx"
)

// LoginHandler serves POST /v1/auth/login.
type LoginHandler struct {
	UserService  *service.UserService
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Log in with username and password
//	@Description	Authenticates a credential pair and returns the user with a fresh token pair.
//	@Description	Missing fields produce 400; wrong username and wrong password are indistinguishable 401s.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authapi.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authapi.LoginResponse	"message, user, tokens"
//	@Failure		400		{object}	authapi.APIError		"error, error_description"
//	@Failure		401		{object}	authapi.APIError		"error, error_description"
//	@Failure		429		{object}	authapi.APIError		"error, error_description"
//	@Failure		500		{object}	authapi.APIError		"error, error_description"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authapi.LoginRequest
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
		log.Error("token issue after login failed", "err", err)
		authapi.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.LoginResponse{
		Message: "Login successful",
		User:    userPayload(user),
		Tokens:  tokenPayload(pair),
	})
}
