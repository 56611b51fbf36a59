// Package audit records authentication and session events. Recording is
// best-effort: a failed write is logged and never fails the calling operation.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"lms-platform/authcore/internal/audit/domain"
	auditrepo "lms-platform/authcore/internal/audit/repository"
)

// IPExtractor returns the client IP from the request context (e.g. gRPC peer).
type IPExtractor func(context.Context) string

// Recorder writes a single audit event. Used by the auth, reset, and session
// code paths; a nil Recorder is valid and records nothing.
type Recorder interface {
	Record(ctx context.Context, userID, sessionID, action, metadata string)
}

// Logger implements Recorder using the audit repository and an optional IP extractor.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
}

// NewLogger returns a Recorder that persists to repo and uses ipExtractor for
// client IP. ipExtractor may be nil; then IP is recorded as "unknown".
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor) *Logger {
	return &Logger{repo: repo, ipExtractor: ipExtractor}
}

// Record writes one audit event. Best-effort: errors are logged and not returned.
func (l *Logger) Record(ctx context.Context, userID, sessionID, action, metadata string) {
	if l == nil || l.repo == nil {
		return
	}
	ip := "unknown"
	if l.ipExtractor != nil {
		ip = l.ipExtractor(ctx)
	}
	e := &domain.Event{
		ID:        uuid.New().String(),
		UserID:    userID,
		SessionID: sessionID,
		Action:    action,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, e); err != nil {
		log.Printf("audit: failed to record %s: %v", action, err)
	}
}
