package record

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemory is a process-local Store for tests and single-process runs.
type InMemory struct {
	mu      sync.Mutex
	records map[string]map[string]*Record // kind -> id -> record
	seq     int64
}

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{records: make(map[string]map[string]*Record)}
}

// Create persists a new record under a generated UUID.
func (s *InMemory) Create(_ context.Context, kind, ownerID string, fields map[string]any) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	s.seq++
	rec := &Record{
		ID:        uuid.NewString(),
		Kind:      kind,
		OwnerID:   ownerID,
		Fields:    cloneFields(fields),
		CreatedAt: now,
		UpdatedAt: now,
	}

	byID := s.records[kind]
	if byID == nil {
		byID = make(map[string]*Record)
		s.records[kind] = byID
	}
	byID[rec.ID] = rec

	return copyRecord(rec), nil
}

// Get returns the record, or ErrNotFound.
func (s *InMemory) Get(_ context.Context, kind, id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRecord(rec), nil
}

// Update replaces the record's fields and bumps UpdatedAt.
func (s *InMemory) Update(_ context.Context, kind, id string, fields map[string]any) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[kind][id]
	if !ok {
		return nil, ErrNotFound
	}

	rec.Fields = cloneFields(fields)
	rec.UpdatedAt = time.Now().UTC()
	if !rec.UpdatedAt.After(rec.CreatedAt) {
		rec.UpdatedAt = rec.CreatedAt.Add(time.Nanosecond)
	}

	return copyRecord(rec), nil
}

// Delete removes the record, or returns ErrNotFound.
func (s *InMemory) Delete(_ context.Context, kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[kind][id]; !ok {
		return ErrNotFound
	}
	delete(s.records[kind], id)
	return nil
}

// ListByOwner returns the owner's records of the kind, newest first.
func (s *InMemory) ListByOwner(_ context.Context, kind, ownerID string) ([]*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Record, 0)
	for _, rec := range s.records[kind] {
		if rec.OwnerID == ownerID {
			out = append(out, copyRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemory) Close() error {
	return nil
}

func copyRecord(rec *Record) *Record {
	copied := *rec
	copied.Fields = cloneFields(rec.Fields)
	return &copied
}

func cloneFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
