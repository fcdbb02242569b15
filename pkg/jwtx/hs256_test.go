package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner(testSecret, "gatekey-test")
	require.NoError(t, err)
	return s
}

func TestNewSignerRejectsShortSecret(t *testing.T) {
	_, err := NewSigner("short", "gatekey-test")
	require.ErrorIs(t, err, ErrWeakSecret)
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	s := newTestSigner(t)
	now := time.Now().UTC()

	t.Run("access token", func(t *testing.T) {
		raw, err := s.Sign(NewAccessClaims("user-1", "alice", "gatekey-test", time.Minute, now))
		require.NoError(t, err)

		claims, err := s.Verify(raw, TokenTypeAccess)
		require.NoError(t, err)
		require.Equal(t, "user-1", claims.Subject)
		require.Equal(t, "alice", claims.Username)
		require.Equal(t, TokenTypeAccess, claims.TokenType)
		require.NotEmpty(t, claims.JTI())
	})

	t.Run("refresh token", func(t *testing.T) {
		raw, err := s.Sign(NewRefreshClaims("user-1", "alice", "gatekey-test", time.Hour, now))
		require.NoError(t, err)

		claims, err := s.Verify(raw, TokenTypeRefresh)
		require.NoError(t, err)
		require.Equal(t, TokenTypeRefresh, claims.TokenType)
	})
}

func TestVerifyRejectsWrongTokenType(t *testing.T) {
	s := newTestSigner(t)
	now := time.Now().UTC()

	refresh, err := s.Sign(NewRefreshClaims("user-1", "alice", "gatekey-test", time.Hour, now))
	require.NoError(t, err)

	_, err = s.Verify(refresh, TokenTypeAccess)
	require.ErrorIs(t, err, ErrWrongType)
}

func TestVerifyRejectsExpired(t *testing.T) {
	s := newTestSigner(t)
	past := time.Now().UTC().Add(-2 * time.Hour)

	raw, err := s.Sign(NewAccessClaims("user-1", "alice", "gatekey-test", time.Minute, past))
	require.NoError(t, err)

	_, err = s.Verify(raw, TokenTypeAccess)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	s := newTestSigner(t)
	raw, err := s.Sign(NewAccessClaims("user-1", "alice", "gatekey-test", time.Minute, time.Now().UTC()))
	require.NoError(t, err)

	other, err := NewSigner("ffffffffffffffffffffffffffffffff", "gatekey-test")
	require.NoError(t, err)

	_, err = other.Verify(raw, TokenTypeAccess)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	issued, err := NewSigner(testSecret, "someone-else")
	require.NoError(t, err)
	raw, err := issued.Sign(NewAccessClaims("user-1", "alice", "someone-else", time.Minute, time.Now().UTC()))
	require.NoError(t, err)

	s := newTestSigner(t)
	_, err = s.Verify(raw, TokenTypeAccess)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	s := newTestSigner(t)

	for _, raw := range []string{"", "garbage", "a.b.c", strings.Repeat("x", 500)} {
		_, err := s.Verify(raw, TokenTypeAccess)
		require.ErrorIs(t, err, ErrMalformed, "input %q", raw)
	}
}

func TestRefreshClaimsHaveUniqueJTI(t *testing.T) {
	now := time.Now().UTC()
	a := NewRefreshClaims("user-1", "alice", "gatekey-test", time.Hour, now)
	b := NewRefreshClaims("user-1", "alice", "gatekey-test", time.Hour, now)

	require.NotEqual(t, a.JTI(), b.JTI())
}
