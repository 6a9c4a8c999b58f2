package journal

import (
	"context"
	"errors"
	"time"
)

// ActionSession marks an entry produced from one session's lifecycle.
// Any other action string denotes a custom activity entry.
const ActionSession = "session"

// ErrInvalidEntry is returned by Append when the entry's fields do not
// match the shape its Action requires.
var ErrInvalidEntry = errors.New("invalid journal entry")

// ErrJournalUnavailable wraps backend failures of durable journals.
var ErrJournalUnavailable = errors.New("journal unavailable")

// Entry is one immutable journal record. Session entries carry LoginAt,
// LogoutAt, and DurationSeconds; custom entries carry Timestamp only.
// Consumers must switch on Action before touching the timestamp fields.
type Entry struct {
	ID       string
	UserID   string
	Username string
	Action   string

	LoginAt         time.Time
	LogoutAt        time.Time
	DurationSeconds int64

	Timestamp time.Time

	Details map[string]string
}

// Validate checks the tagged-union shape for the entry's Action.
func (e *Entry) Validate() error {
	if e.UserID == "" || e.Action == "" {
		return ErrInvalidEntry
	}

	if e.Action == ActionSession {
		if e.LoginAt.IsZero() || e.LogoutAt.IsZero() {
			return ErrInvalidEntry
		}
		if e.DurationSeconds < 0 {
			return ErrInvalidEntry
		}
		if !e.Timestamp.IsZero() {
			return ErrInvalidEntry
		}
		return nil
	}

	if e.Timestamp.IsZero() {
		return ErrInvalidEntry
	}
	if !e.LoginAt.IsZero() || !e.LogoutAt.IsZero() || e.DurationSeconds != 0 {
		return ErrInvalidEntry
	}
	return nil
}

// Journal is the append-only record store consumed by the session
// lifecycle controller and exposed to read handlers.
type Journal interface {
	// Append validates and persists the entry, returning its assigned ID.
	Append(ctx context.Context, entry *Entry) (string, error)

	// QueryByUser returns the user's entries newest first. An empty action
	// filter matches every action.
	QueryByUser(ctx context.Context, userID, action string) ([]*Entry, error)

	// QueryByUsername returns entries recorded under the username, newest
	// first, optionally filtered by action.
	QueryByUsername(ctx context.Context, username, action string) ([]*Entry, error)

	// QueryAll returns all entries newest first, optionally filtered by
	// action.
	QueryAll(ctx context.Context, action string) ([]*Entry, error)

	// Close releases backend resources.
	Close() error
}
