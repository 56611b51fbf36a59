package domain

import "time"

// Type classifies the client that opened the session.
type Type string

const (
	TypeWeb    Type = "web"
	TypeMobile Type = "mobile"
	TypeAPI    Type = "api"
)

// KnownType reports whether t is one of the supported session types.
func KnownType(t Type) bool {
	switch t {
	case TypeWeb, TypeMobile, TypeAPI:
		return true
	}
	return false
}

// Status is the lifecycle state of a session.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusRevoked Status = "revoked"
)

// DeviceInfo is the coarse client classification derived from the User-Agent.
type DeviceInfo struct {
	Browser    string
	OS         string
	DeviceType string
}

// Session represents an authenticated session backed by a signed bearer token.
type Session struct {
	ID             string
	UserID         string
	Token          string
	TokenID        string // jti of the bearer token, used for revocation
	Type           Type
	Status         Status
	CreatedAt      time.Time
	ExpiresAt      time.Time
	LastAccessedAt time.Time
	IPAddress      string
	UserAgent      string
	Device         DeviceInfo
}

// Expired reports whether the session's deadline has passed at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Valid reports whether the session is active and not past its deadline.
func (s *Session) Valid(now time.Time) bool {
	return s.Status == StatusActive && !s.Expired(now)
}
