package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	auditdomain "lms-platform/authcore/internal/audit/domain"
	"lms-platform/authcore/internal/revocation"
	"lms-platform/authcore/internal/security"
	"lms-platform/authcore/internal/session/domain"
	"lms-platform/authcore/internal/session/repository"
)

// Sentinel errors for the session manager; handlers map them to gRPC codes.
var (
	ErrValidation   = errors.New("invalid session request")
	ErrNotFound     = errors.New("session not found")
	ErrInvalidState = errors.New("session is not active")
)

// DevTokenResolver maps a development bearer token to a session. Only wired
// in non-production environments.
type DevTokenResolver func(ctx context.Context, token string) (*domain.Session, error)

// Recorder writes a single audit event. Satisfied by audit.Logger.
type Recorder interface {
	Record(ctx context.Context, userID, sessionID, action, metadata string)
}

// Manager owns the session lifecycle: it issues sessions bound to signed
// bearer tokens and moves them through active, expired, and revoked states.
type Manager struct {
	store      repository.Store
	codec      *security.TokenCodec
	registry   revocation.Registry
	audit      Recorder
	devPrefix  string
	devResolve DevTokenResolver
	nowF       func() time.Time
}

// Option configures a Manager.
type Option func(*Manager) error

// WithClock overrides the manager's time source. Used by tests.
func WithClock(f func() time.Time) Option {
	return func(m *Manager) error {
		m.nowF = f
		return nil
	}
}

// WithAuditor attaches an audit recorder for revocation events.
func WithAuditor(r Recorder) Option {
	return func(m *Manager) error {
		m.audit = r
		return nil
	}
}

// WithDevTokens enables a development token shortcut: bearer tokens starting
// with prefix skip signature verification and resolve through the given
// resolver. Refused outright when env is "production".
func WithDevTokens(prefix string, resolve DevTokenResolver, env string) Option {
	return func(m *Manager) error {
		if prefix == "" {
			return nil
		}
		if env == "production" {
			return errors.New("dev token shortcut must not be enabled in production")
		}
		m.devPrefix = prefix
		m.devResolve = resolve
		return nil
	}
}

// NewManager returns a Manager backed by the given store, token codec, and
// revocation registry.
func NewManager(store repository.Store, codec *security.TokenCodec, registry revocation.Registry, opts ...Option) (*Manager, error) {
	m := &Manager{
		store:    store,
		codec:    codec,
		registry: registry,
		nowF:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Create issues a signed bearer token and persists a new active session for
// the user. The token's claims carry the session id so validation can find
// the session without a token column scan.
func (m *Manager) Create(ctx context.Context, userID string, typ domain.Type, ip, userAgent string) (*domain.Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if !domain.KnownType(typ) {
		return nil, fmt.Errorf("%w: unknown session type %q", ErrValidation, typ)
	}
	id := uuid.NewString()
	token, jti, expiresAt, err := m.codec.IssueAccess(userID, id, "", "")
	if err != nil {
		return nil, err
	}
	now := m.nowF()
	sess := &domain.Session{
		ID:             id,
		UserID:         userID,
		Token:          token,
		TokenID:        jti,
		Type:           typ,
		Status:         domain.StatusActive,
		CreatedAt:      now,
		ExpiresAt:      expiresAt,
		LastAccessedAt: now,
		IPAddress:      ip,
		UserAgent:      userAgent,
		Device:         domain.ParseUserAgent(userAgent),
	}
	if err := m.store.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Validate checks a bearer token and returns its session when everything
// holds: signature, revocation state, and session lifecycle. Every failure,
// including storage errors, yields (nil, nil) so callers treat the request
// as unauthenticated rather than leaking the cause.
func (m *Manager) Validate(ctx context.Context, token string) (*domain.Session, error) {
	return m.ValidateClient(ctx, token, "", "")
}

// ValidateClient is Validate with client details: when the caller's ip or
// user agent drifted from the stored session, the session record follows.
func (m *Manager) ValidateClient(ctx context.Context, token, ip, userAgent string) (*domain.Session, error) {
	sess := m.resolve(ctx, token)
	if sess == nil {
		return nil, nil
	}
	if sess.Status != domain.StatusActive {
		return nil, nil
	}
	now := m.nowF()
	if sess.Expired(now) {
		sess.Status = domain.StatusExpired
		_ = m.store.Update(ctx, sess)
		return nil, nil
	}
	sess.LastAccessedAt = now
	if ip != "" && ip != sess.IPAddress {
		sess.IPAddress = ip
	}
	if userAgent != "" && userAgent != sess.UserAgent {
		sess.UserAgent = userAgent
		sess.Device = domain.ParseUserAgent(userAgent)
	}
	if err := m.store.Update(ctx, sess); err != nil {
		return nil, nil
	}
	return sess, nil
}

// resolve finds the session for a token, or nil when the token does not
// check out. Dev tokens bypass signature verification; real tokens must
// verify and must not carry a revoked jti.
func (m *Manager) resolve(ctx context.Context, token string) *domain.Session {
	if token == "" {
		return nil
	}
	if m.devPrefix != "" && strings.HasPrefix(token, m.devPrefix) {
		sess, err := m.devResolve(ctx, token)
		if err != nil {
			return nil
		}
		return sess
	}
	claims, err := m.codec.Verify(token)
	if err != nil {
		return nil
	}
	revoked, err := m.registry.IsRevoked(ctx, claims.ID)
	if err != nil || revoked {
		return nil
	}
	sess, err := m.store.GetByID(ctx, claims.SessionID)
	if err != nil {
		return nil
	}
	return sess
}

// Extend pushes the session's deadline forward by d. A non-positive d falls
// back to the codec's access TTL. Sessions that are not currently valid
// cannot be extended.
func (m *Manager) Extend(ctx context.Context, token string, d time.Duration) (*domain.Session, error) {
	sess, err := m.store.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNotFound
	}
	now := m.nowF()
	if sess.Status == domain.StatusActive && sess.Expired(now) {
		sess.Status = domain.StatusExpired
		_ = m.store.Update(ctx, sess)
	}
	if !sess.Valid(now) {
		return nil, ErrInvalidState
	}
	if d <= 0 {
		d = m.codec.AccessTTL()
	}
	sess.ExpiresAt = sess.ExpiresAt.Add(d)
	sess.LastAccessedAt = now
	if err := m.store.Update(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Revoke marks the session behind the token as revoked and registers its jti
// so the bearer token dies with it. Returns false when no session carries
// the token. Revoking twice is a no-op reporting true.
func (m *Manager) Revoke(ctx context.Context, token string) (bool, error) {
	sess, err := m.store.GetByToken(ctx, token)
	if err != nil {
		return false, err
	}
	if sess == nil {
		return false, nil
	}
	if sess.Status == domain.StatusRevoked {
		return true, nil
	}
	if err := m.revokeOne(ctx, sess); err != nil {
		return false, err
	}
	if m.audit != nil {
		m.audit.Record(ctx, sess.UserID, sess.ID, auditdomain.ActionSessionRevoked, "")
	}
	return true, nil
}

// RevokeAllForUser revokes every active session of the user and returns how
// many it revoked. A mid-way failure reports the count revoked so far.
func (m *Manager) RevokeAllForUser(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	sessions, err := m.store.ListActiveByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, sess := range sessions {
		if err := m.revokeOne(ctx, sess); err != nil {
			return count, err
		}
		count++
	}
	if count > 0 && m.audit != nil {
		m.audit.Record(ctx, userID, "", auditdomain.ActionBulkRevoke, fmt.Sprintf("revoked %d sessions", count))
	}
	return count, nil
}

func (m *Manager) revokeOne(ctx context.Context, sess *domain.Session) error {
	sess.Status = domain.StatusRevoked
	if err := m.store.Update(ctx, sess); err != nil {
		return err
	}
	return m.registry.Revoke(ctx, sess.TokenID, sess.ExpiresAt)
}

// CleanupExpired deletes sessions whose deadline has passed. Scheduled by
// the sweeper, not called per request.
func (m *Manager) CleanupExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx, m.nowF())
}
