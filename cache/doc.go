// Package cache implements the Redis-backed TTL cache store used by the
// goCoherence engine's cache-aside read path and invalidation coordinator.
//
// # Design
//
// The cache is an optimization, never a source of truth. Read-path
// operations (Get, Set) are best-effort: any transport failure is recovered
// locally as a miss or no-op. Delete and DeletePattern report failures to
// the caller because the invalidation coordinator decides whether a failed
// invalidation fails the request (strict mode) or is logged and tolerated
// until TTL expiry (lenient mode).
//
// # What this package must NOT do
//
//   - Serve a value past its TTL; expiry is enforced by Redis, not callers.
//   - Store an entry without a TTL.
//   - Import goCoherence or any sibling package.
package cache
