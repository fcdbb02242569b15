package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lockboxlabs/gatekey/internal/auth/domain"
	"github.com/lockboxlabs/gatekey/internal/auth/store"
	redisdrv "github.com/lockboxlabs/gatekey/internal/auth/store/drivers/redis"
	"github.com/lockboxlabs/gatekey/pkg/jwtx"
	"github.com/lockboxlabs/gatekey/pkg/slogx"
)

var ErrInvalidRefresh = errors.New("invalid_refresh_token")

type TokenService struct {
	Signer *jwtx.Signer
	Store  store.Store

	// Cache is an optional read-through cache for blacklist lookups. The
	// database remains authoritative; nil disables caching.
	Cache *redisdrv.BlacklistCache

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// RotateRefresh makes Refresh return a new refresh token alongside the
	// new access token.
	RotateRefresh bool

	// BlacklistAfterRotation revokes the consumed refresh token when
	// rotation is enabled, so each refresh token is single-use.
	BlacklistAfterRotation bool
}

// IssuePair signs a fresh access/refresh pair for the user and records the
// refresh token's jti as outstanding.
func (s *TokenService) IssuePair(ctx context.Context, user domain.User) (domain.TokenPair, error) {
	now := time.Now()

	access, err := s.Signer.Sign(jwtx.NewAccessClaims(user.ID, user.Username, s.Signer.Issuer(), s.AccessTTL, now))
	if err != nil {
		return domain.TokenPair{}, err
	}

	refreshClaims := jwtx.NewRefreshClaims(user.ID, user.Username, s.Signer.Issuer(), s.RefreshTTL, now)
	refresh, err := s.Signer.Sign(refreshClaims)
	if err != nil {
		return domain.TokenPair{}, err
	}

	err = s.Store.RefreshTokens().Create(ctx, domain.RefreshToken{
		JTI:       refreshClaims.JTI(),
		UserID:    user.ID,
		ExpiresAt: refreshClaims.ExpiresAt.Time.UTC(),
		CreatedAt: now.UTC(),
	})
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid, non-blacklisted refresh token for a new access
// token. With rotation enabled it also mints a replacement refresh token and,
// when configured, blacklists the consumed one in the same transaction.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	now := time.Now()

	claims, err := s.Signer.Verify(refreshToken, jwtx.TokenTypeRefresh)
	if err != nil {
		return domain.TokenPair{}, ErrInvalidRefresh
	}

	revoked, err := s.isBlacklisted(ctx, claims.JTI())
	if err != nil {
		return domain.TokenPair{}, err
	}
	if revoked {
		l.Info("blacklisted refresh token presented", slog.String("jti", claims.JTI()))
		return domain.TokenPair{}, ErrInvalidRefresh
	}

	record, err := s.Store.RefreshTokens().Get(ctx, claims.JTI())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidRefresh
		}
		return domain.TokenPair{}, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidRefresh
		}
		return domain.TokenPair{}, err
	}
	if !user.IsActive {
		return domain.TokenPair{}, ErrAccountDisabled
	}

	access, err := s.Signer.Sign(jwtx.NewAccessClaims(user.ID, user.Username, s.Signer.Issuer(), s.AccessTTL, now))
	if err != nil {
		return domain.TokenPair{}, err
	}

	if !s.RotateRefresh {
		return domain.TokenPair{Access: access}, nil
	}

	newClaims := jwtx.NewRefreshClaims(user.ID, user.Username, s.Signer.Issuer(), s.RefreshTTL, now)
	newRefresh, err := s.Signer.Sign(newClaims)
	if err != nil {
		return domain.TokenPair{}, err
	}

	// Revoking the old token and recording the new one must be atomic so a
	// crash can't leave the user with no usable refresh token.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if s.BlacklistAfterRotation {
			if err := tx.RefreshTokens().Blacklist(ctx, claims.JTI(), record.ExpiresAt); err != nil {
				return err
			}
		}
		return tx.RefreshTokens().Create(ctx, domain.RefreshToken{
			JTI:       newClaims.JTI(),
			UserID:    user.ID,
			ExpiresAt: newClaims.ExpiresAt.Time.UTC(),
			CreatedAt: now.UTC(),
		})
	})
	if err != nil {
		return domain.TokenPair{}, err
	}

	if s.BlacklistAfterRotation && s.Cache != nil {
		s.Cache.MarkRevoked(ctx, claims.JTI(), record.ExpiresAt)
	}

	return domain.TokenPair{Access: access, Refresh: newRefresh}, nil
}

// Revoke blacklists a refresh token. Revoking an already revoked token is
// not an error, so retried logouts succeed.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	l := slogx.FromContext(ctx)

	claims, err := s.Signer.Verify(refreshToken, jwtx.TokenTypeRefresh)
	if err != nil {
		return ErrInvalidRefresh
	}

	expiresAt := claims.ExpiresAt.Time.UTC()
	if err := s.Store.RefreshTokens().Blacklist(ctx, claims.JTI(), expiresAt); err != nil {
		return err
	}

	if s.Cache != nil {
		s.Cache.MarkRevoked(ctx, claims.JTI(), expiresAt)
	}

	l.Info("refresh token revoked", slog.String("jti", claims.JTI()))
	return nil
}

func (s *TokenService) isBlacklisted(ctx context.Context, jti string) (bool, error) {
	if s.Cache != nil {
		if revoked, known := s.Cache.IsRevoked(ctx, jti); known {
			return revoked, nil
		}
	}
	return s.Store.RefreshTokens().IsBlacklisted(ctx, jti)
}
