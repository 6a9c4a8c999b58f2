package goCoherence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goCoherence/journal"
	"github.com/MrEthical07/goCoherence/record"
)

func newBenchmarkEngine(b *testing.B) *Engine {
	b.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		b.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := defaultConfig()
	cfg.Token.SigningMethod = "hs256"
	cfg.Token.PrivateKey = []byte("bench-secret-bench-secret-ok")
	cfg.Session.TokenTTL = time.Hour
	cfg.Session.SweepInterval = 0
	cfg.Metrics.Enabled = true

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithRecordStore(record.NewInMemory()).
		WithJournal(journal.NewInMemory()).
		WithCredentialVerifier(&stubVerifier{users: map[string]string{"alice": "pw"}}).
		Build()
	if err != nil {
		b.Fatalf("build engine: %v", err)
	}

	b.Cleanup(func() {
		engine.Close()
		rdb.Close()
		mr.Close()
	})

	return engine
}

func BenchmarkAuthorize(b *testing.B) {
	engine := newBenchmarkEngine(b)
	ctx := context.Background()

	res, err := engine.Login(ctx, "alice", "pw")
	if err != nil {
		b.Fatalf("login failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Authorize(ctx, res.Token); err != nil {
			b.Fatalf("authorize failed: %v", err)
		}
	}
}

func BenchmarkLoginLogout(b *testing.B) {
	engine := newBenchmarkEngine(b)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := engine.Login(ctx, "alice", "pw")
		if err != nil {
			b.Fatalf("login failed: %v", err)
		}
		if _, err := engine.Logout(ctx, res.Token); err != nil {
			b.Fatalf("logout failed: %v", err)
		}
	}
}

func BenchmarkReadRecordCached(b *testing.B) {
	engine := newBenchmarkEngine(b)
	ctx := context.Background()

	rec, err := engine.CreateRecord(ctx, "profile", "uid-alice", map[string]any{"bio": "hi"})
	if err != nil {
		b.Fatalf("create record failed: %v", err)
	}
	if _, err := engine.ReadRecord(ctx, "profile", rec.ID); err != nil {
		b.Fatalf("warm read failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.ReadRecord(ctx, "profile", rec.ID); err != nil {
			b.Fatalf("read failed: %v", err)
		}
	}
}
