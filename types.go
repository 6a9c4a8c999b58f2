package goCoherence

import (
	"context"
	"time"

	"github.com/MrEthical07/goCoherence/journal"
	"github.com/MrEthical07/goCoherence/record"
	"github.com/MrEthical07/goCoherence/registry"
)

// Identity is the verified principal returned by a CredentialVerifier.
type Identity struct {
	UserID   string
	Username string
}

// CredentialVerifier defines a public type used by the coherence engine.
//
// Implementations check the supplied credentials against whatever backs
// the user population and return the verified identity. Credential
// storage and hashing are the implementation's concern, not the engine's.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (*Identity, error)
}

// LoginResult defines a public type used by the coherence engine.
//
// LoginResult instances are intended to be treated as immutable after the
// engine returns them.
type LoginResult struct {
	Token     string
	SessionID string
	UserID    string
	Username  string
	LoginAt   time.Time
	ExpiresAt time.Time
}

// LogoutResult defines a public type used by the coherence engine.
//
// LogoutResult instances are intended to be treated as immutable after
// the engine returns them.
type LogoutResult struct {
	SessionID       string
	UserID          string
	Username        string
	LoginAt         time.Time
	LogoutAt        time.Time
	DurationSeconds int64
	JournalEntryID  string
}

// Record re-exports the system-of-record document type.
type Record = record.Record

// JournalEntry re-exports the journal's entry type.
type JournalEntry = journal.Entry

// Session re-exports the registry's live session type.
type Session = registry.Session

// ActionSession re-exports the session lifecycle action tag.
const ActionSession = journal.ActionSession
