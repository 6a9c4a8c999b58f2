package registry

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateToken is returned by Register when the session ID is already
// present. IDs are 128-bit random values, so a collision indicates a caller
// bug rather than bad luck.
var ErrDuplicateToken = errors.New("duplicate session token")

// ErrNotFound is returned by Lookup and Consume when no active session
// exists for the ID. Never-issued, already-consumed, and expired sessions
// are indistinguishable by design; all three mean "no active session".
var ErrNotFound = errors.New("session not found")

// ErrRegistryUnavailable wraps transport failures of backend-based
// registries. The in-memory implementation never returns it.
var ErrRegistryUnavailable = errors.New("session registry unavailable")

// Session is one active session's metadata, held from login until logout
// or expiry.
type Session struct {
	ID       string
	UserID   string
	Username string

	LoginAt   int64
	ExpiresAt int64
}

// Expired reports whether the session's token lifetime has elapsed at now.
func (s *Session) Expired(now time.Time) bool {
	return now.Unix() > s.ExpiresAt
}

// Registry is the active-session store consumed by the session lifecycle
// controller.
type Registry interface {
	// Register inserts a session with the given lifetime. Fails with
	// ErrDuplicateToken if the ID is already present.
	Register(ctx context.Context, sess *Session, ttl time.Duration) error

	// Lookup returns the session without consuming it, or ErrNotFound if
	// absent or expired.
	Lookup(ctx context.Context, id string) (*Session, error)

	// Consume atomically removes and returns the session. Exactly one of
	// N concurrent Consume calls for the same ID succeeds; the others
	// receive ErrNotFound.
	Consume(ctx context.Context, id string) (*Session, error)

	// ActiveCount returns the number of tracked sessions.
	ActiveCount(ctx context.Context) (int, error)

	// Sweep removes expired sessions and returns them so the caller can
	// journal the terminations. Backends that expire entries natively may
	// return an empty slice.
	Sweep(ctx context.Context, now time.Time) ([]*Session, error)
}
