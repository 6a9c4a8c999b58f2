package journal

import (
	"context"
	"strconv"
	"sync"
)

// InMemory is a process-local journal for tests and single-process runs.
// Entries are held in append order; queries walk the slice backwards.
type InMemory struct {
	mu      sync.Mutex
	entries []*Entry
	nextID  int64
}

// NewInMemory creates an empty in-memory journal.
func NewInMemory() *InMemory {
	return &InMemory{}
}

// Append validates and records the entry.
func (j *InMemory) Append(_ context.Context, entry *Entry) (string, error) {
	if err := entry.Validate(); err != nil {
		return "", err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	j.nextID++
	copied := *entry
	copied.ID = strconv.FormatInt(j.nextID, 10)
	copied.Details = cloneDetails(entry.Details)
	j.entries = append(j.entries, &copied)

	return copied.ID, nil
}

// QueryByUser returns the user's entries newest first.
func (j *InMemory) QueryByUser(_ context.Context, userID, action string) ([]*Entry, error) {
	return j.filter(func(e *Entry) bool {
		return e.UserID == userID && (action == "" || e.Action == action)
	}), nil
}

// QueryByUsername returns entries recorded under the username, newest first.
func (j *InMemory) QueryByUsername(_ context.Context, username, action string) ([]*Entry, error) {
	return j.filter(func(e *Entry) bool {
		return e.Username == username && (action == "" || e.Action == action)
	}), nil
}

// QueryAll returns every entry newest first.
func (j *InMemory) QueryAll(_ context.Context, action string) ([]*Entry, error) {
	return j.filter(func(e *Entry) bool {
		return action == "" || e.Action == action
	}), nil
}

// Close is a no-op for the in-memory journal.
func (j *InMemory) Close() error {
	return nil
}

func (j *InMemory) filter(keep func(*Entry) bool) []*Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]*Entry, 0, len(j.entries))
	for i := len(j.entries) - 1; i >= 0; i-- {
		if keep(j.entries[i]) {
			copied := *j.entries[i]
			copied.Details = cloneDetails(j.entries[i].Details)
			out = append(out, &copied)
		}
	}

	return out
}

func cloneDetails(details map[string]string) map[string]string {
	if details == nil {
		return nil
	}
	out := make(map[string]string, len(details))
	for k, v := range details {
		out[k] = v
	}
	return out
}
