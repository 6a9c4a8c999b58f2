// Package internal contains helper utilities that are intentionally private to
// goCoherence, currently secure session ID generation and parsing.
//
// # What this package must NOT do
//
//   - Export types that appear in the public goCoherence API.
//   - Be imported by any package outside the goCoherence module.
package internal
