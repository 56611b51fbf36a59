package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryRegistry is an in-process Registry for tests and single-instance
// deployments. Entries self-expire at the revoked token's own expiry.
// Multi-instance deployments need the Postgres-backed registry instead.
type MemoryRegistry struct {
	mu   sync.RWMutex
	m    map[string]time.Time
	nowF func() time.Time
}

// NewMemoryRegistry returns an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		m:    make(map[string]time.Time),
		nowF: func() time.Time { return time.Now().UTC() },
	}
}

// Revoke marks jti as revoked until expiresAt.
func (r *MemoryRegistry) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[jti] = expiresAt
	return nil
}

// IsRevoked reports whether jti is revoked. Entries whose token expiry has
// passed are pruned on read.
func (r *MemoryRegistry) IsRevoked(ctx context.Context, jti string) (bool, error) {
	r.mu.RLock()
	exp, ok := r.m[jti]
	r.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if !exp.After(r.nowF()) {
		r.mu.Lock()
		delete(r.m, jti)
		r.mu.Unlock()
		return false, nil
	}
	return true, nil
}
