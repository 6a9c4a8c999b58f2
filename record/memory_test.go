package record

import (
	"context"
	"errors"
	"testing"
)

func TestCreateGetRoundTrip(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	created, err := s.Create(ctx, "user", "owner-1", map[string]any{"name": "alice"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an assigned id")
	}
	if created.CreatedAt.IsZero() || !created.UpdatedAt.Equal(created.CreatedAt) {
		t.Fatalf("unexpected timestamps: %+v", created)
	}

	got, err := s.Get(ctx, "user", created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Fields["name"] != "alice" || got.OwnerID != "owner-1" {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, err := s.Get(ctx, "user", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Get(ctx, "order", created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("kinds must not share ids, got %v", err)
	}
}

func TestUpdateReplacesFields(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	created, err := s.Create(ctx, "user", "owner-1", map[string]any{"name": "alice", "tier": "free"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := s.Update(ctx, "user", created.ID, map[string]any{"name": "alice2"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Fields["name"] != "alice2" {
		t.Fatalf("expected replaced fields, got %+v", updated.Fields)
	}
	if _, ok := updated.Fields["tier"]; ok {
		t.Fatal("update must replace, not merge")
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Fatalf("UpdatedAt must advance: %+v", updated)
	}

	if _, err := s.Update(ctx, "user", "missing", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	created, err := s.Create(ctx, "user", "owner-1", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Delete(ctx, "user", created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "user", created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, "user", created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestListByOwner(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.Create(ctx, "order", "owner-1", map[string]any{"n": i}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	if _, err := s.Create(ctx, "order", "owner-2", nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, "user", "owner-1", nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.ListByOwner(ctx, "order", "owner-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for _, rec := range got {
		if rec.Kind != "order" || rec.OwnerID != "owner-1" {
			t.Fatalf("stray record in listing: %+v", rec)
		}
	}

	empty, err := s.ListByOwner(ctx, "order", "owner-3")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty listing, got %d", len(empty))
	}
}

func TestCopiesOnReadAndWrite(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	fields := map[string]any{"name": "alice"}
	created, err := s.Create(ctx, "user", "owner-1", fields)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	fields["name"] = "mutated"
	created.Fields["name"] = "mutated-too"

	got, err := s.Get(ctx, "user", created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Fields["name"] != "alice" {
		t.Fatalf("store must copy fields, got %q", got.Fields["name"])
	}
}
