// Package reset implements the single-use, time-limited password reset flow.
package reset

import (
	"context"
	"errors"
	"time"

	auditdomain "lms-platform/authcore/internal/audit/domain"
	"lms-platform/authcore/internal/security"
	"lms-platform/authcore/internal/user/domain"
)

// ErrInvalidToken is returned for every reset token failure: unknown token,
// missing expiry, or expired. The message never reveals which condition failed.
var ErrInvalidToken = errors.New("invalid or expired reset token")

// DefaultTokenTTL is the reset token lifetime when none is configured.
const DefaultTokenTTL = time.Hour

// UserStore is the minimal user store needed by the reset flow.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByResetToken(ctx context.Context, token string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

// Hasher validates password strength and hashes passwords.
type Hasher interface {
	Hash(password string) (string, error)
}

// Recorder is the audit hook; nil disables auditing.
type Recorder interface {
	Record(ctx context.Context, userID, sessionID, action, metadata string)
}

// Service issues, validates, and consumes password reset tokens. Issuing a new
// token overwrites the previous one, so at most one valid token exists per user.
type Service struct {
	users    UserStore
	hasher   Hasher
	tokenTTL time.Duration
	audit    Recorder
	nowF     func() time.Time
}

// NewService returns a reset service. tokenTTL <= 0 selects DefaultTokenTTL;
// audit may be nil.
func NewService(users UserStore, hasher Hasher, tokenTTL time.Duration, audit Recorder) *Service {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Service{
		users:    users,
		hasher:   hasher,
		tokenTTL: tokenTTL,
		audit:    audit,
		nowF:     func() time.Time { return time.Now().UTC() },
	}
}

// Request issues a reset token for the account with the given email and
// returns it; the caller is responsible for delivery. When no account matches,
// a freshly generated token is still returned but never stored, so response
// shape and timing do not reveal whether the email exists.
func (s *Service) Request(ctx context.Context, email string) (string, error) {
	// Generate before branching on the lookup so both paths do the same work.
	token, err := security.GenerateResetToken()
	if err != nil {
		return "", err
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return token, nil
	}
	user.PasswordReset = &domain.PasswordResetState{
		Token:     token,
		ExpiresAt: s.nowF().Add(s.tokenTTL),
	}
	if err := s.users.Update(ctx, user); err != nil {
		return "", err
	}
	if s.audit != nil {
		s.audit.Record(ctx, user.ID, "", auditdomain.ActionPasswordResetRequested, "")
	}
	return token, nil
}

// Validate resolves token to the owning user and returns the user ID. Unknown
// token, absent expiry, and elapsed expiry all fail with the same ErrInvalidToken.
func (s *Service) Validate(ctx context.Context, token string) (string, error) {
	user, err := s.lookup(ctx, token)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// Complete re-validates token, checks the new password against the strength
// policy, and writes the new hash while clearing the reset state and the
// require-password-change flag in the same update. A weak password leaves the
// token intact so the user can retry without requesting a new link. A consumed
// token fails Validate on the next call, making the reset single-use.
func (s *Service) Complete(ctx context.Context, token, newPassword string) error {
	user, err := s.lookup(ctx, token)
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		// Strength failure: reset state untouched.
		return err
	}
	user.HashedPassword = hash
	user.PasswordReset = nil
	user.RequirePasswordChange = false
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	if s.audit != nil {
		s.audit.Record(ctx, user.ID, "", auditdomain.ActionPasswordResetCompleted, "")
	}
	return nil
}

func (s *Service) lookup(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	user, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordReset == nil {
		return nil, ErrInvalidToken
	}
	st := user.PasswordReset
	if st.Token != token {
		return nil, ErrInvalidToken
	}
	if st.ExpiresAt.IsZero() || s.nowF().After(st.ExpiresAt) {
		return nil, ErrInvalidToken
	}
	return user, nil
}
