// Package postgres implements the durable record.Store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/MrEthical07/goCoherence/record"
)

// Store wraps a *sql.DB and implements record.Store. Records live in a
// single table keyed by (kind, id) with the field bag held as JSONB.
type Store struct {
	sql *sql.DB
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*Store, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", record.ErrRecordUnavailable, err)
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: %v", record.ErrRecordUnavailable, err)
	}

	st := &Store{sql: s}
	if err := st.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return st, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.sql.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id UUID NOT NULL,
			kind TEXT NOT NULL,
			owner_id TEXT NOT NULL,
			fields JSONB,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (kind, id)
		);`,
		"CREATE INDEX IF NOT EXISTS idx_records_owner ON records(kind, owner_id, created_at DESC);",
	}
	for _, stmt := range stmts {
		if _, err := s.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: migrate: %v", record.ErrRecordUnavailable, err)
		}
	}
	return nil
}

func marshalFields(fields map[string]any) (any, error) {
	if fields == nil {
		return nil, nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	return data, nil
}

func unmarshalFields(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	return out, nil
}

// Create persists a new record under a generated UUID.
func (s *Store) Create(ctx context.Context, kind, ownerID string, fields map[string]any) (*record.Record, error) {
	blob, err := marshalFields(fields)
	if err != nil {
		return nil, err
	}

	rec := &record.Record{
		ID:      uuid.NewString(),
		Kind:    kind,
		OwnerID: ownerID,
		Fields:  fields,
	}
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	_, err = s.sql.ExecContext(ctx,
		`INSERT INTO records(id, kind, owner_id, fields, created_at, updated_at)
		 VALUES($1, $2, $3, $4, $5, $6);`,
		rec.ID, rec.Kind, rec.OwnerID, blob, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", record.ErrRecordUnavailable, err)
	}
	return rec, nil
}

// Get returns the record, or record.ErrNotFound.
func (s *Store) Get(ctx context.Context, kind, id string) (*record.Record, error) {
	row := s.sql.QueryRowContext(ctx,
		"SELECT owner_id, fields, created_at, updated_at FROM records WHERE kind=$1 AND id=$2;",
		kind, id,
	)

	rec := &record.Record{ID: id, Kind: kind}
	var raw []byte
	err := row.Scan(&rec.OwnerID, &raw, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, record.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", record.ErrRecordUnavailable, err)
	}
	if rec.Fields, err = unmarshalFields(raw); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update replaces the record's fields and bumps updated_at.
func (s *Store) Update(ctx context.Context, kind, id string, fields map[string]any) (*record.Record, error) {
	blob, err := marshalFields(fields)
	if err != nil {
		return nil, err
	}

	row := s.sql.QueryRowContext(ctx,
		`UPDATE records SET fields=$3, updated_at=$4 WHERE kind=$1 AND id=$2
		 RETURNING owner_id, created_at, updated_at;`,
		kind, id, blob, time.Now().UTC(),
	)

	rec := &record.Record{ID: id, Kind: kind, Fields: fields}
	err = row.Scan(&rec.OwnerID, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, record.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", record.ErrRecordUnavailable, err)
	}
	return rec, nil
}

// Delete removes the record, or returns record.ErrNotFound.
func (s *Store) Delete(ctx context.Context, kind, id string) error {
	res, err := s.sql.ExecContext(ctx, "DELETE FROM records WHERE kind=$1 AND id=$2;", kind, id)
	if err != nil {
		return fmt.Errorf("%w: %v", record.ErrRecordUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", record.ErrRecordUnavailable, err)
	}
	if n == 0 {
		return record.ErrNotFound
	}
	return nil
}

// ListByOwner returns the owner's records of the kind, newest first.
func (s *Store) ListByOwner(ctx context.Context, kind, ownerID string) ([]*record.Record, error) {
	rows, err := s.sql.QueryContext(ctx,
		`SELECT id, fields, created_at, updated_at FROM records
		 WHERE kind=$1 AND owner_id=$2 ORDER BY created_at DESC, id DESC;`,
		kind, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", record.ErrRecordUnavailable, err)
	}
	defer rows.Close()

	out := make([]*record.Record, 0)
	for rows.Next() {
		rec := &record.Record{Kind: kind, OwnerID: ownerID}
		var raw []byte
		if err := rows.Scan(&rec.ID, &raw, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", record.ErrRecordUnavailable, err)
		}
		if rec.Fields, err = unmarshalFields(raw); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", record.ErrRecordUnavailable, err)
	}
	return out, nil
}
