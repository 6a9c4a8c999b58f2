package goCoherence

import "context"

// SessionHistory returns the user's completed-session entries, newest
// first.
func (e *Engine) SessionHistory(ctx context.Context, userID string) ([]*JournalEntry, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	return e.journal.QueryByUser(ctx, userID, ActionSession)
}

// ActivityByUser returns the user's journal entries, optionally filtered
// by action, newest first.
func (e *Engine) ActivityByUser(ctx context.Context, userID, action string) ([]*JournalEntry, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	return e.journal.QueryByUser(ctx, userID, action)
}

// ActivityByUsername returns entries recorded under the username,
// optionally filtered by action, newest first.
func (e *Engine) ActivityByUsername(ctx context.Context, username, action string) ([]*JournalEntry, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	return e.journal.QueryByUsername(ctx, username, action)
}

// JournalEntries returns every journal entry, optionally filtered by
// action, newest first.
func (e *Engine) JournalEntries(ctx context.Context, action string) ([]*JournalEntry, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	return e.journal.QueryAll(ctx, action)
}
