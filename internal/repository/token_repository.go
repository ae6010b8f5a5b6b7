package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo is the session store behind the refresh-token lifecycle.
// Rows hold only the SHA-256 hash of a token, so a leaked table cannot
// be replayed into live sessions. A user may hold several rows at once,
// one per device; logout revokes one or all of them, and rejecting a
// tenant purges them outright.
type TokenRepo struct {
	db *sql.DB
}

// NewTokenRepo returns a TokenRepo bound to the given database.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// DB exposes the underlying handle for handler-owned transactions.
func (r *TokenRepo) DB() *sql.DB { return r.db }

// StoreRefresh records a new session for the user. Called on register,
// login and rotation; expiry is decided by the caller from config.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// ValidateRefresh resolves a token hash to its owner. Revoked and
// expired rows answer sql.ErrNoRows just like absent ones, so callers
// cannot distinguish a stale session from a forged token.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		userID    uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		return 0, err
	}
	if revokedAt.Valid || time.Now().UTC().After(expiresAt) {
		return 0, sql.ErrNoRows
	}
	return userID, nil
}

// RevokeByHash ends the single session the hash identifies. Idempotent:
// revoking an already-revoked row changes nothing.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForUser ends every active session of a user, the
// log-out-everywhere operation.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}

// DeleteAllForUserTx removes every session row of a user inside the
// caller's transaction. The reject flow runs this before deleting the
// users row: the session rows reference the account, and a rejected
// tenant must not keep a refresh token that outlives it.
func (r *TokenRepo) DeleteAllForUserTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE user_id=?", userID)
	return err
}
