package goCoherence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goCoherence/record"
)

// Cache key layout. Direct reads live under "{kind}:{id}"; owner
// listings under "{kind}-list:{ownerID}". Writes invalidate both, never
// refresh them.
func recordKey(kind, id string) string {
	return kind + ":" + id
}

func listKey(kind, ownerID string) string {
	return kind + "-list:" + ownerID
}

// CreateRecord commits the record, then invalidates the owner's cached
// listing. The commit is never rolled back on invalidation failure.
func (e *Engine) CreateRecord(ctx context.Context, kind, ownerID string, fields map[string]any) (*Record, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	rec, err := e.records.Create(ctx, kind, ownerID, fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordStoreUnavailable, err)
	}

	if err := e.invalidate(ctx, listKey(kind, ownerID)); err != nil {
		return rec, err
	}
	return rec, nil
}

// ReadRecord serves the record cache-aside: cache hit wins, a miss falls
// through to the system of record and repopulates the cache best-effort.
func (e *Engine) ReadRecord(ctx context.Context, kind, id string) (*Record, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	start := time.Now()
	defer func() {
		e.metrics.Observe(MetricReadLatency, time.Since(start))
	}()

	if blob, ok := e.cache.Get(ctx, recordKey(kind, id)); ok {
		var rec Record
		if err := json.Unmarshal(blob, &rec); err == nil {
			e.metrics.Inc(MetricCacheHit)
			return &rec, nil
		}
		// Corrupt cached payload: treat as a miss and repopulate below.
	}
	e.metrics.Inc(MetricCacheMiss)

	rec, err := e.records.Get(ctx, kind, id)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRecordStoreUnavailable, err)
	}

	e.cacheSet(ctx, recordKey(kind, id), rec)

	return rec, nil
}

// UpdateRecord commits the new fields, then invalidates the record's
// direct key and its owner's listing.
func (e *Engine) UpdateRecord(ctx context.Context, kind, id string, fields map[string]any) (*Record, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	rec, err := e.records.Update(ctx, kind, id, fields)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRecordStoreUnavailable, err)
	}

	if err := e.invalidate(ctx, recordKey(kind, id), listKey(kind, rec.OwnerID)); err != nil {
		return rec, err
	}
	return rec, nil
}

// DeleteRecord removes the record, then invalidates its cached views.
func (e *Engine) DeleteRecord(ctx context.Context, kind, id string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if e.closed.Load() {
		return ErrEngineClosed
	}

	rec, err := e.records.Get(ctx, kind, id)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("%w: %v", ErrRecordStoreUnavailable, err)
	}

	if err := e.records.Delete(ctx, kind, id); err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("%w: %v", ErrRecordStoreUnavailable, err)
	}

	return e.invalidate(ctx, recordKey(kind, id), listKey(kind, rec.OwnerID))
}

// ListRecordsByOwner serves the owner's listing cache-aside, newest
// first.
func (e *Engine) ListRecordsByOwner(ctx context.Context, kind, ownerID string) ([]*Record, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	start := time.Now()
	defer func() {
		e.metrics.Observe(MetricReadLatency, time.Since(start))
	}()

	key := listKey(kind, ownerID)
	if blob, ok := e.cache.Get(ctx, key); ok {
		var recs []*Record
		if err := json.Unmarshal(blob, &recs); err == nil {
			e.metrics.Inc(MetricCacheHit)
			return recs, nil
		}
	}
	e.metrics.Inc(MetricCacheMiss)

	recs, err := e.records.ListByOwner(ctx, kind, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordStoreUnavailable, err)
	}

	e.cacheSet(ctx, key, recs)

	return recs, nil
}

// InvalidateKind drops every cached listing of the kind. Intended for
// bulk imports and migrations that bypass the engine's write path.
func (e *Engine) InvalidateKind(ctx context.Context, kind string) (int, error) {
	if e == nil {
		return 0, ErrEngineNotReady
	}
	if e.closed.Load() {
		return 0, ErrEngineClosed
	}

	removed, err := e.cache.DeletePattern(ctx, kind+"-list:*")
	if err != nil {
		e.metrics.Inc(MetricInvalidationFailure)
		e.emitAudit(ctx, AuditInvalidationError, false, "", "", err.Error(), map[string]string{"kind": kind})
		if e.config.Invalidation.Strict {
			return removed, fmt.Errorf("%w: %v", ErrInvalidationFailed, err)
		}
		return removed, nil
	}
	e.metrics.Inc(MetricInvalidationSuccess)
	return removed, nil
}

// cacheSet repopulates a cache key best-effort. Serialization or
// transport failures leave the cache cold, never fail the read.
func (e *Engine) cacheSet(ctx context.Context, key string, value any) {
	blob, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, key, blob, e.config.Cache.DefaultTTL); err == nil {
		e.metrics.Inc(MetricCacheSet)
	}
}

// invalidate drops the keys after a committed write. In strict mode a
// failure surfaces as ErrInvalidationFailed; otherwise it is audited and
// the write still reports success.
func (e *Engine) invalidate(ctx context.Context, keys ...string) error {
	var firstErr error
	for _, key := range keys {
		if _, err := e.cache.Delete(ctx, key); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if firstErr != nil {
		e.metrics.Inc(MetricInvalidationFailure)
		e.emitAudit(ctx, AuditInvalidationError, false, "", "", firstErr.Error(), map[string]string{"keys": fmt.Sprint(keys)})
		if e.config.Invalidation.Strict {
			return fmt.Errorf("%w: %v", ErrInvalidationFailed, firstErr)
		}
		return nil
	}

	e.metrics.Inc(MetricInvalidationSuccess)
	e.emitAudit(ctx, AuditInvalidation, true, "", "", "", map[string]string{"keys": fmt.Sprint(keys)})
	return nil
}
