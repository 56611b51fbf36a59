// Package domain holds the user aggregate as seen by the credential core. The
// full user profile is owned by the user-management service; this core reads
// credentials and mutates only the password and reset state.
package domain

import "time"

// UserStatus is the lifecycle status of a user account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusDeleted   UserStatus = "deleted"
)

// PasswordResetState is the pending password reset for a user, if any. At most
// one valid reset token exists per user; issuing a new one overwrites this record.
type PasswordResetState struct {
	Token     string
	ExpiresAt time.Time
}

// User is the slice of the user aggregate the credential core works with.
type User struct {
	ID       string
	Username string
	Email    string
	Status   UserStatus

	HashedPassword        string
	RequirePasswordChange bool
	PasswordReset         *PasswordResetState // nil when no reset is pending

	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
