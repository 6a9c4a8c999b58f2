// Package journal provides the append-only store of completed-session and
// ad hoc activity records.
//
// # Design
//
// The journal is write-once, read-many: no update or delete operation
// exists, and implementations must not grow one. An [Entry] is a tagged
// union keyed by Action: [ActionSession] entries carry login/logout
// timestamps and a duration; custom entries carry a single timestamp.
// [Entry.Validate] enforces the shape before an append is accepted, so
// writers and readers cannot drift.
//
// Retrieval order is insertion order, newest first.
//
// # What this package must NOT do
//
//   - Mutate or remove an appended entry.
//   - Accept a session entry with a negative duration or a custom entry
//     carrying session timestamps.
//   - Import goCoherence or any sibling package.
package journal
