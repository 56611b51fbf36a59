package revocation

import (
	"context"
	"database/sql"
	"time"
)

// PostgresRegistry is a durable Registry backed by the revoked_tokens table.
// It survives restarts and is shared across service instances.
type PostgresRegistry struct {
	db *sql.DB
}

// NewPostgresRegistry returns a registry that uses the given db for persistence.
func NewPostgresRegistry(db *sql.DB) *PostgresRegistry {
	return &PostgresRegistry{db: db}
}

// Revoke inserts jti into the revoked set. Re-revoking the same jti is a no-op.
func (r *PostgresRegistry) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO revoked_tokens (jti, expires_at, revoked_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (jti) DO NOTHING`,
		jti, expiresAt, time.Now().UTC())
	return err
}

// IsRevoked reports whether jti is present and the underlying token has not
// yet expired on its own.
func (r *PostgresRegistry) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1 AND expires_at > $2)`,
		jti, time.Now().UTC()).Scan(&revoked)
	if err != nil {
		return false, err
	}
	return revoked, nil
}

// DeleteExpired removes entries whose token expiry has passed. Intended for
// the scheduled sweep, not the request path. Returns the number of rows removed.
func (r *PostgresRegistry) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at <= $1`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
