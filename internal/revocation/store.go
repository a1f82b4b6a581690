// Package revocation records tokens that were invalidated before their
// natural expiry. Each token class (access, refresh) gets its own Store.
package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

type Store interface {
	// Revoke marks token as revoked until expiresAt. Revoking an already
	// revoked token is a no-op.
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	// Sweep drops every entry whose expiry is at or before now.
	Sweep(ctx context.Context, now time.Time) (int, error)
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
