package http

import (
	"net/http"

	"github.com/lockboxlabs/gatekey/internal/auth/service"
	"github.com/lockboxlabs/gatekey/pkg/authapi"
	"github.com/lockboxlabs/gatekey/pkg/httpx"
	"github.com/lockboxlabs/gatekey/pkg/slogx"
)

// RegisterHandler serves POST /v1/auth/register.
type RegisterHandler struct {
	UserService  *service.UserService
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Register a new account
//	@Description	Creates a user account and returns it together with an initial access/refresh token pair, so clients are signed in immediately after registering.
//	@Description	All invalid fields are reported at once. Usernames are unique; email addresses are not.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authapi.RegisterRequest		true	"Registration details"
//	@Success		201		{object}	authapi.RegisterResponse	"message, user, tokens"
//	@Failure		400		{object}	authapi.APIError			"error, error_description, fields"
//	@Failure		429		{object}	authapi.APIError			"error, error_description"
//	@Failure		500		{object}	authapi.APIError			"error, error_description"
//	@Router			/v1/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authapi.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.Register(ctx, service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Password2: req.Password2,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	pair, err := h.TokenService.IssuePair(ctx, user)
	if err != nil {
		log.Error("token issue after registration failed", "err", err)
		authapi.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authapi.RegisterResponse{
		Message: "User registered successfully",
		User:    userPayload(user),
		Tokens:  tokenPayload(pair),
	})
}
