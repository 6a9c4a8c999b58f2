package goCoherence

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/goCoherence/cache"
	"github.com/MrEthical07/goCoherence/journal"
	"github.com/MrEthical07/goCoherence/record"
	"github.com/MrEthical07/goCoherence/registry"
	"github.com/MrEthical07/goCoherence/token"
)

// Engine defines a public type used by the coherence engine.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
// All methods are safe for concurrent use.
type Engine struct {
	config Config

	cache    *cache.Store
	records  record.Store
	sessions registry.Registry
	journal  journal.Journal
	tokens   *token.Manager
	verifier CredentialVerifier

	audit   *auditDispatcher
	metrics *Metrics

	sweepStop chan struct{}
	sweepWG   sync.WaitGroup
	closed    atomic.Bool
}

// Metrics exposes the engine's counters.
func (e *Engine) Metrics() *Metrics {
	if e == nil {
		return nil
	}
	return e.metrics
}

// MetricsSnapshot copies the engine's counters and histograms for exporters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Cache exposes the cache store for health checks.
func (e *Engine) Cache() *cache.Store {
	if e == nil {
		return nil
	}
	return e.cache
}

// ActiveSessions reports the number of live sessions in the registry.
func (e *Engine) ActiveSessions(ctx context.Context) (int, error) {
	if e == nil {
		return 0, ErrEngineNotReady
	}
	return e.sessions.ActiveCount(ctx)
}

// AuditDropped reports how many audit events were discarded.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// Close stops the sweeper and drains the audit dispatcher. The stores
// handed to the builder stay open; their owner closes them.
func (e *Engine) Close() {
	if e == nil || !e.closed.CompareAndSwap(false, true) {
		return
	}
	if e.sweepStop != nil {
		close(e.sweepStop)
		e.sweepWG.Wait()
	}
	e.audit.Close()
}

func (e *Engine) emitAudit(ctx context.Context, eventType string, success bool, userID, sessionID string, errMsg string, metadata map[string]string) {
	if e.audit == nil {
		return
	}
	e.audit.Emit(ctx, AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		SessionID: sessionID,
		IP:        clientIPFromContext(ctx),
		UserAgent: userAgentFromContext(ctx),
		Success:   success,
		Error:     errMsg,
		Metadata:  metadata,
	})
}

func (e *Engine) startSweeper() {
	if e.config.Session.SweepInterval <= 0 {
		return
	}

	e.sweepStop = make(chan struct{})
	e.sweepWG.Add(1)
	go func() {
		defer e.sweepWG.Done()
		ticker := time.NewTicker(e.config.Session.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				e.sweep(now)
			case <-e.sweepStop:
				return
			}
		}
	}()
}

// sweep retires expired sessions and journals each one as if it had
// logged out at its expiry instant.
func (e *Engine) sweep(now time.Time) {
	ctx := context.Background()

	expired, err := e.sessions.Sweep(ctx, now)
	if err != nil {
		return
	}

	for _, sess := range expired {
		e.metrics.Inc(MetricSessionSwept)

		loginAt := time.Unix(sess.LoginAt, 0).UTC()
		logoutAt := time.Unix(sess.ExpiresAt, 0).UTC()
		duration := sess.ExpiresAt - sess.LoginAt
		if duration < 0 {
			duration = 0
		}

		_, err := e.journal.Append(ctx, &journal.Entry{
			UserID:          sess.UserID,
			Username:        sess.Username,
			Action:          journal.ActionSession,
			LoginAt:         loginAt,
			LogoutAt:        logoutAt,
			DurationSeconds: duration,
			Details:         map[string]string{"reason": "expired"},
		})
		if err != nil {
			e.metrics.Inc(MetricJournalFailure)
			e.emitAudit(ctx, AuditJournalFailure, false, sess.UserID, sess.ID, err.Error(), nil)
			continue
		}
		e.metrics.Inc(MetricJournalAppend)
		e.emitAudit(ctx, AuditSessionExpired, true, sess.UserID, sess.ID, "", map[string]string{
			"duration_seconds": strconv.FormatInt(duration, 10),
		})
	}
}
