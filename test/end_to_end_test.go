package test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	goCoherence "github.com/MrEthical07/goCoherence"
	"github.com/MrEthical07/goCoherence/journal"
	"github.com/MrEthical07/goCoherence/record"
)

type fixedVerifier map[string]string

func (v fixedVerifier) Verify(_ context.Context, username, password string) (*goCoherence.Identity, error) {
	if pw, ok := v[username]; ok && pw == password {
		return &goCoherence.Identity{UserID: "uid-" + username, Username: username}, nil
	}
	return nil, errors.New("bad credentials")
}

func newEndToEndEngine(t *testing.T, strict bool) (*goCoherence.Engine, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	jr, err := journal.OpenSQLite(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}

	cfg := goCoherence.DefaultConfig()
	cfg.Token.SigningMethod = "hs256"
	cfg.Token.PrivateKey = []byte("e2e-secret-e2e-secret-e2e")
	cfg.Session.TokenTTL = time.Minute
	cfg.Session.SweepInterval = 0
	cfg.Session.UseRedisRegistry = true
	cfg.Invalidation.Strict = strict
	cfg.Metrics.Enabled = true

	engine, err := goCoherence.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithRecordStore(record.NewInMemory()).
		WithJournal(jr).
		WithCredentialVerifier(fixedVerifier{"alice": "pw", "bob": "pw"}).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}

	t.Cleanup(func() {
		engine.Close()
		jr.Close()
		rdb.Close()
		mr.Close()
	})

	return engine, mr
}

// Full lifecycle against the Redis registry and SQLite journal: login,
// cached reads, invalidated writes, atomic logout, journal queries.
func TestEndToEndLifecycle(t *testing.T) {
	engine, _ := newEndToEndEngine(t, false)
	ctx := context.Background()

	login, err := engine.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	sess, err := engine.Authorize(ctx, login.Token)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}

	// Record lifecycle under the session owner.
	rec, err := engine.CreateRecord(ctx, "note", sess.UserID, map[string]any{"text": "v1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := engine.ReadRecord(ctx, "note", rec.ID); err != nil {
		t.Fatalf("read: %v", err)
	}
	if _, err := engine.UpdateRecord(ctx, "note", rec.ID, map[string]any{"text": "v2"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := engine.ReadRecord(ctx, "note", rec.ID)
	if err != nil {
		t.Fatalf("read after update: %v", err)
	}
	if got.Fields["text"] != "v2" {
		t.Fatalf("stale read after update: %+v", got.Fields)
	}

	listing, err := engine.ListRecordsByOwner(ctx, "note", sess.UserID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listing) != 1 {
		t.Fatalf("expected 1 record, got %d", len(listing))
	}

	// Activity entry plus logout both land in the durable journal.
	if _, err := engine.LogActivity(ctx, sess.UserID, sess.Username, "note_created", map[string]string{"record": rec.ID}); err != nil {
		t.Fatalf("log activity: %v", err)
	}

	out, err := engine.Logout(ctx, login.Token)
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if out.DurationSeconds < 0 {
		t.Fatalf("negative duration: %d", out.DurationSeconds)
	}

	history, err := engine.SessionHistory(ctx, sess.UserID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 session entry, got %d", len(history))
	}

	activity, err := engine.ActivityByUser(ctx, sess.UserID, "note_created")
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	if len(activity) != 1 || activity[0].Details["record"] != rec.ID {
		t.Fatalf("unexpected activity: %+v", activity)
	}

	if _, err := engine.Authorize(ctx, login.Token); !errors.Is(err, goCoherence.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after logout, got %v", err)
	}
}

// Concurrent logouts race on the Redis-backed registry; exactly one may
// journal the session.
func TestEndToEndConcurrentLogout(t *testing.T) {
	engine, _ := newEndToEndEngine(t, false)
	ctx := context.Background()

	login, err := engine.Login(ctx, "bob", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	const callers = 16

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)

	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := engine.Logout(ctx, login.Token); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()

	if winners != 1 {
		t.Fatalf("expected exactly one logout winner, got %d", winners)
	}

	history, err := engine.SessionHistory(ctx, "uid-bob")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected one journal entry, got %d", len(history))
	}
}

// TTL expiry in the Redis registry invalidates tokens without a logout.
func TestEndToEndTokenExpiryViaRegistry(t *testing.T) {
	engine, mr := newEndToEndEngine(t, false)
	ctx := context.Background()

	login, err := engine.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := engine.Authorize(ctx, login.Token); !errors.Is(err, goCoherence.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after ttl, got %v", err)
	}
	if _, err := engine.Logout(ctx, login.Token); !errors.Is(err, goCoherence.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession after ttl, got %v", err)
	}
}

// Strict invalidation propagates cache failures on the write path while
// the commit itself stands.
func TestEndToEndStrictInvalidation(t *testing.T) {
	engine, mr := newEndToEndEngine(t, true)
	ctx := context.Background()

	login, err := engine.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	sess, err := engine.Authorize(ctx, login.Token)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}

	rec, err := engine.CreateRecord(ctx, "note", sess.UserID, map[string]any{"text": "v1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	mr.Close()

	if _, err := engine.UpdateRecord(ctx, "note", rec.ID, map[string]any{"text": "v2"}); !errors.Is(err, goCoherence.ErrInvalidationFailed) {
		t.Fatalf("expected ErrInvalidationFailed, got %v", err)
	}
}
