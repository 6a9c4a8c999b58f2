// Package goCoherence keeps a Redis read cache, a durable system of
// record, and an append-only session journal mutually consistent. It
// provides commit-then-invalidate record operations, a session registry
// whose logout consume is atomic under concurrency, and a journal of
// completed sessions and ad hoc activity.
//
// The package is designed for concurrent server workloads: Engine
// methods are safe to call from multiple goroutines after initialization
// through [Builder.Build].
//
// # Architecture boundaries
//
// goCoherence is the public surface. It exposes [Engine], [Builder],
// [Config], and value types (LoginResult, MetricsSnapshot, etc.). The
// cache, registry, journal, record, and token packages hold the
// implementations and never import this package.
//
// # What this package must NOT do
//
//   - Expose Redis clients, internal stores, or encoding details in its
//     public API.
//   - Serve a record read from the cache after its invalidation
//     succeeded.
//   - Import any sub-package that re-imports goCoherence (no import
//     cycles).
package goCoherence
