package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newCacheStoreTest(t *testing.T) (*Store, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStore(rdb, "gc")
	return store, mr, func() {
		rdb.Close()
		mr.Close()
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	store, _, done := newCacheStoreTest(t)
	defer done()
	ctx := context.Background()

	if err := store.Set(ctx, "note:1", []byte(`{"title":"n1"}`), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok := store.Get(ctx, "note:1")
	if !ok {
		t.Fatal("expected hit after set")
	}
	if string(got) != `{"title":"n1"}` {
		t.Fatalf("unexpected payload: %s", got)
	}
}

func TestSetRequiresTTL(t *testing.T) {
	store, _, done := newCacheStoreTest(t)
	defer done()

	err := store.Set(context.Background(), "note:1", []byte("x"), 0)
	if !errors.Is(err, ErrTTLRequired) {
		t.Fatalf("expected ErrTTLRequired, got %v", err)
	}
}

func TestTTLExpiryIsAMiss(t *testing.T) {
	store, mr, done := newCacheStoreTest(t)
	defer done()
	ctx := context.Background()

	if err := store.Set(ctx, "note:1", []byte("x"), 30*time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}

	mr.FastForward(31 * time.Second)

	if _, ok := store.Get(ctx, "note:1"); ok {
		t.Fatal("expected miss after ttl elapsed")
	}
}

func TestGetSwallowsTransportFailure(t *testing.T) {
	store, mr, done := newCacheStoreTest(t)
	defer done()
	ctx := context.Background()

	if err := store.Set(ctx, "note:1", []byte("x"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.Close()

	if _, ok := store.Get(ctx, "note:1"); ok {
		t.Fatal("expected miss when redis is unreachable")
	}
}

func TestDeleteReportsTransportFailure(t *testing.T) {
	store, mr, done := newCacheStoreTest(t)
	defer done()
	mr.Close()

	if _, err := store.Delete(context.Background(), "note:1"); !errors.Is(err, ErrCacheUnavailable) {
		t.Fatalf("expected ErrCacheUnavailable, got %v", err)
	}
}

func TestDeleteRemovedFlag(t *testing.T) {
	store, _, done := newCacheStoreTest(t)
	defer done()
	ctx := context.Background()

	removed, err := store.Delete(ctx, "note:absent")
	if err != nil {
		t.Fatalf("delete absent: %v", err)
	}
	if removed {
		t.Fatal("expected removed=false for absent key")
	}

	if err := store.Set(ctx, "note:1", []byte("x"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	removed, err = store.Delete(ctx, "note:1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !removed {
		t.Fatal("expected removed=true for present key")
	}
}

func TestDeletePatternRemovesCollectionViews(t *testing.T) {
	store, _, done := newCacheStoreTest(t)
	defer done()
	ctx := context.Background()

	for _, key := range []string{"note-list:alice", "note-list:bob", "note:1"} {
		if err := store.Set(ctx, key, []byte("x"), time.Minute); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}

	n, err := store.DeletePattern(ctx, "note-list:*")
	if err != nil {
		t.Fatalf("delete pattern: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deletions, got %d", n)
	}

	if _, ok := store.Get(ctx, "note-list:alice"); ok {
		t.Fatal("expected list view gone")
	}
	if _, ok := store.Get(ctx, "note:1"); !ok {
		t.Fatal("direct key must survive a list-pattern invalidation")
	}
}

func TestFlushClearsOnlyOwnPrefix(t *testing.T) {
	store, mr, done := newCacheStoreTest(t)
	defer done()
	ctx := context.Background()

	if err := store.Set(ctx, "note:1", []byte("x"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.Set("other:key", "y")

	if _, err := store.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	if _, ok := store.Get(ctx, "note:1"); ok {
		t.Fatal("expected prefixed key flushed")
	}
	if !mr.Exists("other:key") {
		t.Fatal("flush must not touch foreign prefixes")
	}
}
