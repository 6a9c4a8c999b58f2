// Package registry tracks active, not-yet-journaled sessions keyed by an
// opaque session ID.
//
// # Design
//
// A session enters the registry exactly once (Register, at login) and
// leaves exactly once (Consume, at logout, or the expiry sweep). Consume is
// an atomic remove-and-return: when N callers race on the same ID, exactly
// one receives the session and the rest receive [ErrNotFound]. That single
// guarantee is what prevents double journal entries for one session.
//
// Two implementations are provided. [InMemory] is the process-local default
// and loses state on restart. [RedisRegistry] keeps Consume atomic across
// multiple service instances by performing the check-and-remove in a Lua
// script, at the cost of a Redis round-trip per call.
//
// # What this package must NOT do
//
//   - Write journal entries or compute durations; the engine owns those.
//   - Resurrect a consumed or expired session ID.
//   - Import goCoherence or any sibling package.
package registry
