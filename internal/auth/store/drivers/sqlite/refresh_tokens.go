package sqlite

import (
	"context"
	"time"

	"github.com/lockboxlabs/gatekey/internal/auth/domain"
)

type refreshTokensRepo struct {
	db dbtx
}

func (r *refreshTokensRepo) Create(ctx context.Context, t domain.RefreshToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (jti, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		t.JTI,
		t.UserID,
		t.ExpiresAt,
		t.CreatedAt,
	)
	return err
}

func (r *refreshTokensRepo) Get(ctx context.Context, jti string) (domain.RefreshToken, error) {
	var t domain.RefreshToken
	err := r.db.QueryRowContext(ctx,
		`SELECT jti, user_id, expires_at, created_at FROM refresh_tokens WHERE jti = ?`, jti).
		Scan(&t.JTI, &t.UserID, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	return t, nil
}

// Blacklist is idempotent: revoking an already revoked jti keeps the original
// blacklisted_at timestamp.
func (r *refreshTokensRepo) Blacklist(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO token_blacklist (jti, expires_at, blacklisted_at) VALUES (?, ?, ?)`,
		jti,
		expiresAt,
		time.Now().UTC(),
	)
	return err
}

func (r *refreshTokensRepo) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM token_blacklist WHERE jti = ?`, jti).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *refreshTokensRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	res, err = r.db.ExecContext(ctx,
		`DELETE FROM token_blacklist WHERE expires_at < ?`, cutoff)
	if err != nil {
		return removed, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return removed, err
	}

	return removed + n, nil
}
