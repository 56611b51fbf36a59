package repository

import (
	"context"

	"lms-platform/authcore/internal/audit/domain"
)

// Repository persists audit events.
type Repository interface {
	Create(ctx context.Context, e *domain.Event) error
	// ListByUser returns events for the given user, newest first.
	ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.Event, error)
}
