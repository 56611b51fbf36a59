// Package revocation tracks revoked token identifiers (jti) so that a token
// with a valid signature and unexpired claims can still be rejected after
// logout. The registry is injected as a dependency, never held as module state.
package revocation

import (
	"context"
	"time"
)

// Registry records revoked token identifiers until the token would have
// expired on its own. Implementations must be safe for concurrent use.
type Registry interface {
	// Revoke marks jti as revoked. expiresAt is the token's own expiry; the
	// entry may be dropped after that time since the token is then invalid anyway.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	// IsRevoked reports whether jti has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
