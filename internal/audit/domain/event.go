package domain

import "time"

// Actions recorded by the credential core.
const (
	ActionLogin                  = "login"
	ActionLoginFailed            = "login_failed"
	ActionSessionRevoked         = "session_revoked"
	ActionBulkRevoke             = "bulk_revoke"
	ActionPasswordResetRequested = "password_reset_requested"
	ActionPasswordResetCompleted = "password_reset_completed"
)

// Event is one audit record for an authentication or session event.
type Event struct {
	ID        string
	UserID    string
	SessionID string
	Action    string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
