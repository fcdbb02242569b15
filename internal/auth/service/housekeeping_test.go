package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockboxlabs/gatekey/internal/auth/domain"
	"github.com/lockboxlabs/gatekey/internal/auth/store"
)

func TestHousekeeping_PurgesExpiredRecords(t *testing.T) {
	st := newTestStore(t)
	user := newTokenUser(t, st)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, st.RefreshTokens().Create(ctx, domain.RefreshToken{
		JTI: "stale", UserID: user.ID, ExpiresAt: now.Add(-time.Hour), CreatedAt: now.Add(-2 * time.Hour),
	}))
	require.NoError(t, st.RefreshTokens().Blacklist(ctx, "stale", now.Add(-time.Hour)))
	require.NoError(t, st.RefreshTokens().Create(ctx, domain.RefreshToken{
		JTI: "fresh", UserID: user.ID, ExpiresAt: now.Add(time.Hour), CreatedAt: now,
	}))

	hk := NewHousekeepingService(st, slog.Default(), time.Hour)
	hk.Start()
	hk.Stop() // Start runs one cleanup immediately

	_, err := st.RefreshTokens().Get(ctx, "stale")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.RefreshTokens().Get(ctx, "fresh")
	assert.NoError(t, err)
}
