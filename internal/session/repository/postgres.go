package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"lms-platform/authcore/internal/session/domain"
)

const sessionColumns = `id, user_id, token, token_id, type, status,
		created_at, expires_at, last_accessed_at, ip_address, user_agent,
		device_browser, device_os, device_type`

// PostgresStore implements Store on Postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore returns a session store that uses the given db for persistence.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create persists the session. The session must have ID set.
func (s *PostgresStore) Create(ctx context.Context, sess *domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (`+sessionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		sess.ID, sess.UserID, sess.Token, sess.TokenID,
		string(sess.Type), string(sess.Status),
		sess.CreatedAt, sess.ExpiresAt, sess.LastAccessedAt,
		nullString(sess.IPAddress), nullString(sess.UserAgent),
		nullString(sess.Device.Browser), nullString(sess.Device.OS),
		nullString(sess.Device.DeviceType))
	return err
}

// GetByToken returns the session carrying the given bearer token, or nil if
// not found. The token column carries a unique index.
func (s *PostgresStore) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	return s.getBy(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE token = $1`, token)
}

// GetByID returns the session for id, or nil if not found.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	return s.getBy(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
}

// ListActiveByUser returns the user's sessions currently marked active,
// newest first. Expiry is not evaluated here; callers own that transition.
func (s *PostgresStore) ListActiveByUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE user_id = $1 AND status = 'active'
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// Update writes the mutable session fields back to the row.
func (s *PostgresStore) Update(ctx context.Context, sess *domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET
			status = $2, expires_at = $3, last_accessed_at = $4,
			ip_address = $5, user_agent = $6,
			device_browser = $7, device_os = $8, device_type = $9
		 WHERE id = $1`,
		sess.ID, string(sess.Status), sess.ExpiresAt, sess.LastAccessedAt,
		nullString(sess.IPAddress), nullString(sess.UserAgent),
		nullString(sess.Device.Browser), nullString(sess.Device.OS),
		nullString(sess.Device.DeviceType))
	return err
}

// DeleteExpired removes sessions whose deadline passed before the given
// cutoff, regardless of status, and returns the number of rows removed.
func (s *PostgresStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) getBy(ctx context.Context, query string, arg any) (*domain.Session, error) {
	sess, err := scanSession(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return sess, nil
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var (
		sess                    domain.Session
		typ, status             string
		ip, ua, browser, osName sql.NullString
		deviceType              sql.NullString
	)
	err := row.Scan(
		&sess.ID, &sess.UserID, &sess.Token, &sess.TokenID, &typ, &status,
		&sess.CreatedAt, &sess.ExpiresAt, &sess.LastAccessedAt,
		&ip, &ua, &browser, &osName, &deviceType)
	if err != nil {
		return nil, err
	}
	sess.Type = domain.Type(typ)
	sess.Status = domain.Status(status)
	sess.IPAddress = ip.String
	sess.UserAgent = ua.String
	sess.Device = domain.DeviceInfo{
		Browser:    browser.String,
		OS:         osName.String,
		DeviceType: deviceType.String,
	}
	return &sess, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
