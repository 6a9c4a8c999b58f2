// Package middleware exposes HTTP middleware adapters built on top of
// goCoherence.Engine session authorization.
//
// # Guards
//
//   - [Guard] — requires a live session for every request.
//
// The guard reads the Authorization header, calls Engine.Authorize, and
// injects the live session into the request context.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement session logic itself — all decisions are delegated to
// Engine.Authorize.
//
// # What this package must NOT do
//
//   - Parse or create tokens directly (delegates to Engine).
//   - Access Redis (Engine handles I/O).
//   - Make authorization decisions beyond pass/reject from
//     Engine.Authorize.
package middleware
