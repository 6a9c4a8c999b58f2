// Package record defines the system-of-record boundary the engine commits
// to before touching any cache.
//
// # Design
//
// A [Record] is a kind-scoped document owned by one principal: a stable
// ID, a Kind naming the collection it belongs to, an OwnerID, and a free
// Fields bag. [Store] is the commit surface; implementations must make a
// write durable before returning, because the engine invalidates cached
// views only after a Store call succeeds.
//
// The in-memory store backs tests and single-process runs. The postgres
// subpackage holds the production implementation.
//
// # What this package must NOT do
//
//   - Read from or write to any cache.
//   - Absorb write errors: a failed commit must surface so no
//     invalidation is issued for it.
//   - Import goCoherence or any sibling package.
package record
