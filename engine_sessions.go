package goCoherence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goCoherence/internal"
	"github.com/MrEthical07/goCoherence/journal"
	"github.com/MrEthical07/goCoherence/registry"
)

// Login verifies credentials, registers a session, and mints its bearer
// token. The registry write happens before the token exists, so a token
// never refers to a session that was not registered.
func (e *Engine) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	identity, err := e.verifier.Verify(ctx, username, password)
	if err != nil || identity == nil || identity.UserID == "" {
		e.metrics.Inc(MetricLoginFailure)
		e.emitAudit(ctx, AuditLoginFailure, false, "", "", "invalid credentials", map[string]string{"username": username})
		return nil, ErrInvalidCredentials
	}

	sid, err := internal.NewSessionID()
	if err != nil {
		e.metrics.Inc(MetricLoginFailure)
		e.emitAudit(ctx, AuditLoginFailure, false, identity.UserID, "", err.Error(), nil)
		return nil, fmt.Errorf("%w: %v", ErrSessionCreationFailed, err)
	}

	now := time.Now().UTC()
	ttl := e.config.Session.TokenTTL
	sess := &registry.Session{
		ID:        sid.String(),
		UserID:    identity.UserID,
		Username:  identity.Username,
		LoginAt:   now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}

	if err := e.sessions.Register(ctx, sess, ttl); err != nil {
		if errors.Is(err, registry.ErrDuplicateToken) {
			e.metrics.Inc(MetricLoginDuplicateToken)
			e.emitAudit(ctx, AuditLoginFailure, false, identity.UserID, sess.ID, "duplicate session token", nil)
			return nil, ErrDuplicateSessionToken
		}
		e.metrics.Inc(MetricLoginFailure)
		e.emitAudit(ctx, AuditLoginFailure, false, identity.UserID, sess.ID, err.Error(), nil)
		return nil, fmt.Errorf("%w: %v", ErrSessionCreationFailed, err)
	}
	e.metrics.Inc(MetricSessionRegistered)

	signed, err := e.tokens.Mint(identity.UserID, identity.Username, sess.ID)
	if err != nil {
		// Best effort: a session without a token is unreachable, so
		// retire it rather than leave it to the sweeper.
		if _, cerr := e.sessions.Consume(ctx, sess.ID); cerr == nil {
			e.metrics.Inc(MetricSessionConsumed)
		}
		e.metrics.Inc(MetricLoginFailure)
		e.emitAudit(ctx, AuditLoginFailure, false, identity.UserID, sess.ID, err.Error(), nil)
		return nil, fmt.Errorf("%w: %v", ErrSessionCreationFailed, err)
	}

	e.metrics.Inc(MetricLoginSuccess)
	e.emitAudit(ctx, AuditLoginSuccess, true, identity.UserID, sess.ID, "", nil)

	return &LoginResult{
		Token:     signed,
		SessionID: sess.ID,
		UserID:    identity.UserID,
		Username:  identity.Username,
		LoginAt:   now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// Logout atomically consumes the token's session, computes the session
// duration, and appends the completed-session journal entry. Among
// concurrent logouts of the same token exactly one journals the session;
// the rest see ErrNoActiveSession.
func (e *Engine) Logout(ctx context.Context, tokenStr string) (*LogoutResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	claims, err := e.tokens.Parse(tokenStr)
	if err != nil {
		e.metrics.Inc(MetricLogoutNoSession)
		e.emitAudit(ctx, AuditLogoutNoSession, false, "", "", err.Error(), nil)
		return nil, ErrUnauthorized
	}

	sess, err := e.sessions.Consume(ctx, claims.SID)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			e.metrics.Inc(MetricLogoutNoSession)
			e.emitAudit(ctx, AuditLogoutNoSession, false, claims.UID, claims.SID, "no active session", nil)
			return nil, ErrNoActiveSession
		}
		return nil, err
	}
	e.metrics.Inc(MetricSessionConsumed)

	loginAt := time.Unix(sess.LoginAt, 0).UTC()
	logoutAt := time.Now().UTC()
	duration := logoutAt.Unix() - sess.LoginAt
	if duration < 0 {
		duration = 0
	}

	details := map[string]string{}
	if ip := clientIPFromContext(ctx); ip != "" {
		details["ip"] = ip
	}
	if len(details) == 0 {
		details = nil
	}

	entryID, err := e.journal.Append(ctx, &journal.Entry{
		UserID:          sess.UserID,
		Username:        sess.Username,
		Action:          journal.ActionSession,
		LoginAt:         loginAt,
		LogoutAt:        logoutAt,
		DurationSeconds: duration,
		Details:         details,
	})
	if err != nil {
		e.metrics.Inc(MetricJournalFailure)
		e.emitAudit(ctx, AuditJournalFailure, false, sess.UserID, sess.ID, err.Error(), nil)
		return nil, fmt.Errorf("%w: %v", ErrJournalWriteFailed, err)
	}
	e.metrics.Inc(MetricJournalAppend)
	e.metrics.Inc(MetricLogoutSuccess)
	e.emitAudit(ctx, AuditLogoutSuccess, true, sess.UserID, sess.ID, "", nil)

	return &LogoutResult{
		SessionID:       sess.ID,
		UserID:          sess.UserID,
		Username:        sess.Username,
		LoginAt:         loginAt,
		LogoutAt:        logoutAt,
		DurationSeconds: duration,
		JournalEntryID:  entryID,
	}, nil
}

// Authorize verifies the token and confirms its session is still live in
// the registry. It never consumes the session.
func (e *Engine) Authorize(ctx context.Context, tokenStr string) (*Session, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	claims, err := e.tokens.Parse(tokenStr)
	if err != nil {
		e.metrics.Inc(MetricAuthorizeDenied)
		e.emitAudit(ctx, AuditAuthorizeDenied, false, "", "", err.Error(), nil)
		return nil, ErrUnauthorized
	}

	sess, err := e.sessions.Lookup(ctx, claims.SID)
	if err != nil {
		e.metrics.Inc(MetricAuthorizeDenied)
		if errors.Is(err, registry.ErrNotFound) {
			e.emitAudit(ctx, AuditAuthorizeDenied, false, claims.UID, claims.SID, "session not registered", nil)
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	e.metrics.Inc(MetricAuthorizeSuccess)
	return sess, nil
}

// LogActivity appends a custom activity entry. The action tag must not
// collide with the session lifecycle tag.
func (e *Engine) LogActivity(ctx context.Context, userID, username, action string, details map[string]string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}
	if e.closed.Load() {
		return "", ErrEngineClosed
	}

	if action == "" || action == journal.ActionSession {
		return "", ErrInvalidActivity
	}

	id, err := e.journal.Append(ctx, &journal.Entry{
		UserID:    userID,
		Username:  username,
		Action:    action,
		Timestamp: time.Now().UTC(),
		Details:   details,
	})
	if err != nil {
		if errors.Is(err, journal.ErrInvalidEntry) {
			return "", fmt.Errorf("%w: %v", ErrInvalidActivity, err)
		}
		e.metrics.Inc(MetricJournalFailure)
		e.emitAudit(ctx, AuditJournalFailure, false, userID, "", err.Error(), nil)
		return "", fmt.Errorf("%w: %v", ErrJournalWriteFailed, err)
	}
	e.metrics.Inc(MetricJournalAppend)

	return id, nil
}
