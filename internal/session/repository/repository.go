package repository

import (
	"context"
	"time"

	"lms-platform/authcore/internal/session/domain"
)

// Store is the persistence contract for sessions. Lookups return (nil, nil)
// when no row matches; errors are reserved for storage failures.
type Store interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	ListActiveByUser(ctx context.Context, userID string) ([]*domain.Session, error)
	Update(ctx context.Context, s *domain.Session) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
