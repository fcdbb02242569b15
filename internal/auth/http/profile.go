package http

import (
	"net/http"

	"github.com/lockboxlabs/gatekey/internal/auth/service"
	"github.com/lockboxlabs/gatekey/pkg/authapi"
	"github.com/lockboxlabs/gatekey/pkg/httpx"
)

// ProfileHandler serves GET and PUT /v1/auth/profile for the authenticated
// user.
type ProfileHandler struct {
	UserService *service.UserService
}

// HandleGet godoc
//
//	@Summary		Get the authenticated user's profile
//	@Tags			Profile
//	@Produce		json
//	@Success		200	{object}	authapi.ProfileResponse	"user"
//	@Failure		401	{object}	authapi.APIError		"error, error_description"
//	@Failure		429	{object}	authapi.APIError		"error, error_description"
//	@Failure		500	{object}	authapi.APIError		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/auth/profile [get].
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		authapi.ErrInvalidToken.WriteError(w)
		return
	}

	user, err := h.UserService.GetProfile(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.ProfileResponse{
		User: userPayload(user),
	})
}

// HandlePut godoc
//
//	@Summary		Update the authenticated user's profile
//	@Description	Applies a partial update to email, first_name, and last_name. Absent fields are left
//	@Description	unchanged. Read-only attributes (id, username, date_joined) in the body are silently ignored.
//	@Tags			Profile
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authapi.UpdateProfileRequest	true	"Fields to update"
//	@Success		200		{object}	authapi.UpdateProfileResponse	"message, user"
//	@Failure		400		{object}	authapi.APIError				"error, error_description, fields"
//	@Failure		401		{object}	authapi.APIError				"error, error_description"
//	@Failure		429		{object}	authapi.APIError				"error, error_description"
//	@Failure		500		{object}	authapi.APIError				"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/auth/profile [put].
func (h *ProfileHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		authapi.ErrInvalidToken.WriteError(w)
		return
	}

	var req authapi.UpdateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.UpdateProfile(ctx, userID, service.UpdateProfileInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.UpdateProfileResponse{
		Message: "Profile updated successfully",
		User:    userPayload(user),
	})
}
