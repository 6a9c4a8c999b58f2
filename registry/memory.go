package registry

import (
	"context"
	"sync"
	"time"
)

// InMemory is the process-local registry. All operations key on the session
// ID; Consume holds the lock across the check-and-remove so racing callers
// serialize and exactly one observes the entry.
type InMemory struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewInMemory creates an empty in-memory registry.
func NewInMemory() *InMemory {
	return &InMemory{
		sessions: make(map[string]*Session),
	}
}

// Register inserts the session. The ttl parameter is ignored: expiry for
// the in-memory backend is carried by sess.ExpiresAt and enforced by
// Lookup and Sweep.
func (r *InMemory) Register(_ context.Context, sess *Session, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[sess.ID]; exists {
		return ErrDuplicateToken
	}

	copied := *sess
	r.sessions[sess.ID] = &copied
	return nil
}

// Lookup returns the session without consuming it.
func (r *InMemory) Lookup(_ context.Context, id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if sess.Expired(time.Now()) {
		return nil, ErrNotFound
	}

	copied := *sess
	return &copied, nil
}

// Consume atomically removes and returns the session.
func (r *InMemory) Consume(_ context.Context, id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.sessions, id)

	return sess, nil
}

// ActiveCount returns the number of tracked sessions, including entries
// past expiry that the sweeper has not yet collected.
func (r *InMemory) ActiveCount(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions), nil
}

// Sweep removes every session whose expiry precedes now and returns the
// removed sessions.
func (r *InMemory) Sweep(_ context.Context, now time.Time) ([]*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var swept []*Session
	for id, sess := range r.sessions {
		if sess.Expired(now) {
			swept = append(swept, sess)
			delete(r.sessions, id)
		}
	}

	return swept, nil
}
