package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/lockboxlabs/gatekey/internal/auth/domain"
	"github.com/lockboxlabs/gatekey/internal/auth/service"
	"github.com/lockboxlabs/gatekey/internal/auth/store"
	"github.com/lockboxlabs/gatekey/pkg/authapi"
	"github.com/lockboxlabs/gatekey/pkg/slogx"
)

func userPayload(u domain.User) authapi.UserPayload {
	return authapi.UserPayload{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsActive:   u.IsActive,
		DateJoined: u.JoinedAt.UTC().Format(time.RFC3339),
	}
}

func tokenPayload(p domain.TokenPair) authapi.TokenPairPayload {
	return authapi.TokenPairPayload{Access: p.Access, Refresh: p.Refresh}
}

// writeServiceError maps service-layer errors onto API error responses.
// Unrecognized errors are logged and reported as opaque 500s.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		authapi.NewValidationError(verr.Fields).WriteError(w)
	case errors.Is(err, service.ErrMissingCredentials):
		authapi.ErrMissingCredentials.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		authapi.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrAccountDisabled):
		authapi.ErrAccountDisabled.WriteError(w)
	case errors.Is(err, service.ErrInvalidRefresh):
		authapi.ErrInvalidToken.WriteError(w)
	case errors.Is(err, store.ErrNotFound):
		// A valid JWT for a user that no longer exists.
		authapi.ErrInvalidToken.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		authapi.ErrServerError.WriteError(w)
	}
}
