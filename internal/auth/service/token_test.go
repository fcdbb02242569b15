package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockboxlabs/gatekey/internal/auth/domain"
	"github.com/lockboxlabs/gatekey/internal/auth/store"
	redisdrv "github.com/lockboxlabs/gatekey/internal/auth/store/drivers/redis"
	"github.com/lockboxlabs/gatekey/pkg/jwtx"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTokenService(t *testing.T, st store.Store) *TokenService {
	t.Helper()

	signer, err := jwtx.NewSigner(testSecret, "gatekey-test")
	require.NoError(t, err)

	return &TokenService{
		Signer:                 signer,
		Store:                  st,
		AccessTTL:              time.Hour,
		RefreshTTL:             7 * 24 * time.Hour,
		RotateRefresh:          true,
		BlacklistAfterRotation: true,
	}
}

func newTokenUser(t *testing.T, st store.Store) domain.User {
	t.Helper()

	svc := &UserService{Store: st}
	user, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)
	return user
}

func TestTokenService_IssuePair(t *testing.T) {
	st := newTestStore(t)
	svc := newTokenService(t, st)
	user := newTokenUser(t, st)
	ctx := context.Background()

	pair, err := svc.IssuePair(ctx, user)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	access, err := svc.Signer.Verify(pair.Access, jwtx.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, access.Subject)
	assert.Equal(t, user.Username, access.Username)

	refresh, err := svc.Signer.Verify(pair.Refresh, jwtx.TokenTypeRefresh)
	require.NoError(t, err)

	// The refresh jti is recorded as outstanding.
	record, err := st.RefreshTokens().Get(ctx, refresh.JTI())
	require.NoError(t, err)
	assert.Equal(t, user.ID, record.UserID)
}

func TestTokenService_Refresh_Rotates(t *testing.T) {
	st := newTestStore(t)
	svc := newTokenService(t, st)
	user := newTokenUser(t, st)
	ctx := context.Background()

	pair, err := svc.IssuePair(ctx, user)
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	require.NotEmpty(t, rotated.Access)
	require.NotEmpty(t, rotated.Refresh)
	assert.NotEqual(t, pair.Refresh, rotated.Refresh)

	// The consumed token is single-use.
	_, err = svc.Refresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidRefresh)

	// The replacement works.
	_, err = svc.Refresh(ctx, rotated.Refresh)
	require.NoError(t, err)
}

func TestTokenService_Refresh_NoRotation(t *testing.T) {
	st := newTestStore(t)
	svc := newTokenService(t, st)
	svc.RotateRefresh = false
	user := newTokenUser(t, st)
	ctx := context.Background()

	pair, err := svc.IssuePair(ctx, user)
	require.NoError(t, err)

	out, err := svc.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, out.Access)
	assert.Empty(t, out.Refresh)

	// Without rotation the same refresh token keeps working.
	_, err = svc.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
}

func TestTokenService_Refresh_InvalidTokens(t *testing.T) {
	st := newTestStore(t)
	svc := newTokenService(t, st)
	user := newTokenUser(t, st)
	ctx := context.Background()

	pair, err := svc.IssuePair(ctx, user)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"access token at refresh endpoint", pair.Access},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Refresh(ctx, tt.token)
			assert.ErrorIs(t, err, ErrInvalidRefresh)
		})
	}
}

func TestTokenService_Refresh_UnknownJTI(t *testing.T) {
	st := newTestStore(t)
	svc := newTokenService(t, st)
	user := newTokenUser(t, st)
	ctx := context.Background()

	// A well-signed refresh token that was never recorded (e.g. issued
	// before a DB restore) must be rejected.
	claims := jwtx.NewRefreshClaims(user.ID, user.Username, svc.Signer.Issuer(), svc.RefreshTTL, time.Now())
	orphan, err := svc.Signer.Sign(claims)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, orphan)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestTokenService_Refresh_DisabledUser(t *testing.T) {
	st := newTestStore(t)
	svc := newTokenService(t, st)
	user := newTokenUser(t, st)
	ctx := context.Background()

	pair, err := svc.IssuePair(ctx, user)
	require.NoError(t, err)

	disableUser(t, st, user)

	_, err = svc.Refresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestTokenService_Revoke(t *testing.T) {
	st := newTestStore(t)
	svc := newTokenService(t, st)
	user := newTokenUser(t, st)
	ctx := context.Background()

	pair, err := svc.IssuePair(ctx, user)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, pair.Refresh))

	_, err = svc.Refresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidRefresh)

	// Revoking again is fine.
	require.NoError(t, svc.Revoke(ctx, pair.Refresh))
}

func TestTokenService_Revoke_InvalidToken(t *testing.T) {
	st := newTestStore(t)
	svc := newTokenService(t, st)

	err := svc.Revoke(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestTokenService_BlacklistCache(t *testing.T) {
	st := newTestStore(t)
	svc := newTokenService(t, st)
	user := newTokenUser(t, st)
	ctx := context.Background()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	svc.Cache = redisdrv.NewBlacklistCache(client)

	pair, err := svc.IssuePair(ctx, user)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, pair.Refresh))

	refresh, err := svc.Signer.Verify(pair.Refresh, jwtx.TokenTypeRefresh)
	require.NoError(t, err)

	// The revocation landed in the cache as well as the DB.
	revoked, known := svc.Cache.IsRevoked(ctx, refresh.JTI())
	assert.True(t, revoked)
	assert.True(t, known)

	_, err = svc.Refresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidRefresh)

	// Even with redis gone the DB still blocks the token.
	mr.Close()
	_, err = svc.Refresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}
