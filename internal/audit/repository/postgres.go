package repository

import (
	"context"
	"database/sql"

	"lms-platform/authcore/internal/audit/domain"
)

// PostgresRepository implements Repository on Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit event repository using the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the audit event. The event must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, e *domain.Event) error {
	sessionID := sql.NullString{String: e.SessionID, Valid: e.SessionID != ""}
	metadata := sql.NullString{String: e.Metadata, Valid: e.Metadata != ""}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_events (id, user_id, session_id, action, ip, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.UserID, sessionID, e.Action, e.IP, metadata, e.CreatedAt)
	return err
}

// ListByUser returns events for the given user, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, session_id, action, ip, metadata, created_at
		 FROM audit_events WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Event
	for rows.Next() {
		var (
			e         domain.Event
			sessionID sql.NullString
			metadata  sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.UserID, &sessionID, &e.Action, &e.IP, &metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.SessionID = sessionID.String
		e.Metadata = metadata.String
		out = append(out, &e)
	}
	return out, rows.Err()
}
