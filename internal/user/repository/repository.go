package repository

import (
	"context"

	"lms-platform/authcore/internal/user/domain"
)

// Store is the user store contract consumed by the credential core. Lookups
// return (nil, nil) when no user matches; errors are reserved for store failures.
type Store interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetByResetToken resolves the user holding the given reset token via an
	// indexed exact-match lookup, never a scan.
	GetByResetToken(ctx context.Context, token string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}
