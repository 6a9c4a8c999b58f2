package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite is the durable journal backend. Insertion order is carried by the
// rowid; the package never issues an UPDATE or DELETE against the entries
// table.
type SQLite struct {
	sqlDB *sql.DB
}

// OpenSQLite opens (or creates) the journal database at path and applies
// the schema.
func OpenSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping journal db: %w", err)
	}

	j := &SQLite{sqlDB: sqlDB}
	if err := j.migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return j, nil
}

// Close closes the SQLite handle.
func (j *SQLite) Close() error {
	if j == nil || j.sqlDB == nil {
		return nil
	}
	return j.sqlDB.Close()
}

func (j *SQLite) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS journal_entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	username TEXT NOT NULL,
	action TEXT NOT NULL,
	login_at INTEGER,
	logout_at INTEGER,
	duration_seconds INTEGER,
	ts INTEGER,
	details TEXT
);
CREATE INDEX IF NOT EXISTS idx_journal_entries_user_id ON journal_entries(user_id);
CREATE INDEX IF NOT EXISTS idx_journal_entries_username ON journal_entries(username);
CREATE INDEX IF NOT EXISTS idx_journal_entries_action ON journal_entries(action);
`
	if _, err := j.sqlDB.Exec(schema); err != nil {
		return fmt.Errorf("migrate journal: %w", err)
	}
	return nil
}

func toMillis(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.UTC().UnixMilli()
}

func fromMillis(value sql.NullInt64) time.Time {
	if !value.Valid {
		return time.Time{}
	}
	return time.UnixMilli(value.Int64).UTC()
}

// Append validates and inserts the entry, returning the assigned rowid.
func (j *SQLite) Append(ctx context.Context, entry *Entry) (string, error) {
	if err := entry.Validate(); err != nil {
		return "", err
	}

	var details any
	if len(entry.Details) > 0 {
		data, err := json.Marshal(entry.Details)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidEntry, err)
		}
		details = string(data)
	}

	res, err := j.sqlDB.ExecContext(ctx,
		`INSERT INTO journal_entries
			(user_id, username, action, login_at, logout_at, duration_seconds, ts, details)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.UserID,
		entry.Username,
		entry.Action,
		toMillis(entry.LoginAt),
		toMillis(entry.LogoutAt),
		durationColumn(entry),
		toMillis(entry.Timestamp),
		details,
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrJournalUnavailable, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrJournalUnavailable, err)
	}

	return strconv.FormatInt(id, 10), nil
}

func durationColumn(entry *Entry) any {
	if entry.Action != ActionSession {
		return nil
	}
	return entry.DurationSeconds
}

// QueryByUser returns the user's entries newest first.
func (j *SQLite) QueryByUser(ctx context.Context, userID, action string) ([]*Entry, error) {
	return j.query(ctx, "user_id = ?", userID, action)
}

// QueryByUsername returns entries recorded under the username, newest first.
func (j *SQLite) QueryByUsername(ctx context.Context, username, action string) ([]*Entry, error) {
	return j.query(ctx, "username = ?", username, action)
}

// QueryAll returns every entry newest first.
func (j *SQLite) QueryAll(ctx context.Context, action string) ([]*Entry, error) {
	return j.query(ctx, "", "", action)
}

func (j *SQLite) query(ctx context.Context, where, arg, action string) ([]*Entry, error) {
	var (
		clauses []string
		args    []any
	)
	if where != "" {
		clauses = append(clauses, where)
		args = append(args, arg)
	}
	if action != "" {
		clauses = append(clauses, "action = ?")
		args = append(args, action)
	}

	q := `SELECT id, user_id, username, action, login_at, logout_at, duration_seconds, ts, details
	      FROM journal_entries`
	if len(clauses) > 0 {
		q += " WHERE " + strings.Join(clauses, " AND ")
	}
	q += " ORDER BY id DESC"

	rows, err := j.sqlDB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJournalUnavailable, err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		var (
			id       int64
			entry    Entry
			loginAt  sql.NullInt64
			logoutAt sql.NullInt64
			duration sql.NullInt64
			ts       sql.NullInt64
			details  sql.NullString
		)
		if err := rows.Scan(&id, &entry.UserID, &entry.Username, &entry.Action,
			&loginAt, &logoutAt, &duration, &ts, &details); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrJournalUnavailable, err)
		}

		entry.ID = strconv.FormatInt(id, 10)
		entry.LoginAt = fromMillis(loginAt)
		entry.LogoutAt = fromMillis(logoutAt)
		if duration.Valid {
			entry.DurationSeconds = duration.Int64
		}
		entry.Timestamp = fromMillis(ts)
		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("%w: corrupt details for entry %d: %v", ErrJournalUnavailable, id, err)
			}
		}

		out = append(out, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJournalUnavailable, err)
	}

	return out, nil
}
