// Package auth implements credential verification: resolving an identifier to
// a user and checking the password, with a response shape that never reveals
// whether the identifier exists.
package auth

import (
	"context"
	"errors"
	"time"

	auditdomain "lms-platform/authcore/internal/audit/domain"
	"lms-platform/authcore/internal/user/domain"
)

// ErrInvalidCredentials is returned for every authentication failure: unknown
// identifier, wrong password, or inactive account. Callers must surface one
// generic message regardless of cause.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyPasswordHash is verified against when no user matches the identifier,
// so the unknown-user path costs the same bcrypt work as a real mismatch.
// This is not a credential; it can never grant access.
const dummyPasswordHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// UserStore is the minimal user store needed for authentication.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

// PasswordVerifier checks a plaintext password against a stored hash.
type PasswordVerifier interface {
	Verify(password, hash string) bool
}

// Recorder is the audit hook; nil disables auditing.
type Recorder interface {
	Record(ctx context.Context, userID, sessionID, action, metadata string)
}

// Service authenticates users against the external user store.
type Service struct {
	users  UserStore
	hasher PasswordVerifier
	audit  Recorder
}

// NewService returns an authentication service. audit may be nil.
func NewService(users UserStore, hasher PasswordVerifier, audit Recorder) *Service {
	return &Service{users: users, hasher: hasher, audit: audit}
}

// Authenticate resolves identifier as a username first, then as an email, and
// verifies password against the stored hash. On success the user's login
// timestamp is updated (best-effort) and the user is returned. Every failure
// path returns ErrInvalidCredentials and writes nothing to the user store.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (*domain.User, error) {
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.users.GetByEmail(ctx, identifier)
		if err != nil {
			return nil, err
		}
	}

	if user == nil {
		// Burn the same bcrypt cost as a real mismatch.
		_ = s.hasher.Verify(password, dummyPasswordHash)
		s.recordFailure(ctx, "")
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive() {
		s.recordFailure(ctx, user.ID)
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.HashedPassword) {
		s.recordFailure(ctx, user.ID)
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	// Login succeeds even if the timestamp write fails.
	_ = s.users.Update(ctx, user)
	if s.audit != nil {
		s.audit.Record(ctx, user.ID, "", auditdomain.ActionLogin, "")
	}
	return user, nil
}

func (s *Service) recordFailure(ctx context.Context, userID string) {
	if s.audit != nil {
		s.audit.Record(ctx, userID, "", auditdomain.ActionLoginFailed, "")
	}
}
