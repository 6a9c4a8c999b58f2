package goCoherence

import "errors"

var (
	// ErrInvalidCredentials is an exported constant or variable used by the coherence engine.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is an exported constant or variable used by the coherence engine.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNoActiveSession is an exported constant or variable used by the coherence engine.
	ErrNoActiveSession = errors.New("no active session")
	// ErrDuplicateSessionToken is an exported constant or variable used by the coherence engine.
	ErrDuplicateSessionToken = errors.New("duplicate session token")
	// ErrSessionCreationFailed is an exported constant or variable used by the coherence engine.
	ErrSessionCreationFailed = errors.New("session creation failed")
	// ErrRecordNotFound is an exported constant or variable used by the coherence engine.
	ErrRecordNotFound = errors.New("record not found")
	// ErrRecordStoreUnavailable is an exported constant or variable used by the coherence engine.
	ErrRecordStoreUnavailable = errors.New("record store unavailable")
	// ErrInvalidationFailed is an exported constant or variable used by the coherence engine.
	ErrInvalidationFailed = errors.New("cache invalidation failed")
	// ErrJournalWriteFailed is an exported constant or variable used by the coherence engine.
	ErrJournalWriteFailed = errors.New("journal write failed")
	// ErrInvalidActivity is an exported constant or variable used by the coherence engine.
	ErrInvalidActivity = errors.New("invalid activity entry")
	// ErrEngineNotReady is an exported constant or variable used by the coherence engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrEngineClosed is an exported constant or variable used by the coherence engine.
	ErrEngineClosed = errors.New("engine closed")
)
