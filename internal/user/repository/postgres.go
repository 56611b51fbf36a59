package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"lms-platform/authcore/internal/user/domain"
)

const userColumns = `id, username, email, status, hashed_password,
		require_password_change, reset_token, reset_token_expires_at,
		last_login_at, created_at, updated_at`

// PostgresStore implements Store on Postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore returns a user store that uses the given db for persistence.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByUsername returns the user with the given username, or nil if not found.
func (s *PostgresStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// GetByEmail returns the user with the given email, or nil if not found.
func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetByResetToken returns the user holding the given reset token, or nil.
// The reset_token column carries a partial unique index, so this is an exact
// indexed lookup.
func (s *PostgresStore) GetByResetToken(ctx context.Context, token string) (*domain.User, error) {
	return s.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE reset_token = $1`, token)
}

// Create persists a new user. The user must have ID set.
func (s *PostgresStore) Create(ctx context.Context, u *domain.User) error {
	resetToken, resetExpires := resetColumns(u)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		u.ID, u.Username, u.Email, string(u.Status), u.HashedPassword,
		u.RequirePasswordChange, resetToken, resetExpires,
		timeToNullTime(u.LastLoginAt), u.CreatedAt, u.UpdatedAt)
	return err
}

// Update writes the credential-relevant fields back to the user row.
func (s *PostgresStore) Update(ctx context.Context, u *domain.User) error {
	resetToken, resetExpires := resetColumns(u)
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET
			username = $2, email = $3, status = $4, hashed_password = $5,
			require_password_change = $6, reset_token = $7,
			reset_token_expires_at = $8, last_login_at = $9, updated_at = $10
		 WHERE id = $1`,
		u.ID, u.Username, u.Email, string(u.Status), u.HashedPassword,
		u.RequirePasswordChange, resetToken, resetExpires,
		timeToNullTime(u.LastLoginAt), time.Now().UTC())
	return err
}

func (s *PostgresStore) getBy(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		u            domain.User
		status       string
		resetToken   sql.NullString
		resetExpires sql.NullTime
		lastLogin    sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &status, &u.HashedPassword,
		&u.RequirePasswordChange, &resetToken, &resetExpires,
		&lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.Status = domain.UserStatus(status)
	if resetToken.Valid {
		u.PasswordReset = &domain.PasswordResetState{Token: resetToken.String}
		if resetExpires.Valid {
			u.PasswordReset.ExpiresAt = resetExpires.Time
		}
	}
	u.LastLoginAt = nullTimeToPtr(lastLogin)
	return &u, nil
}

func resetColumns(u *domain.User) (sql.NullString, sql.NullTime) {
	if u.PasswordReset == nil {
		return sql.NullString{}, sql.NullTime{}
	}
	return sql.NullString{String: u.PasswordReset.Token, Valid: true},
		sql.NullTime{Time: u.PasswordReset.ExpiresAt, Valid: !u.PasswordReset.ExpiresAt.IsZero()}
}

func timeToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullTimeToPtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	return &n.Time
}
