// Package token issues and verifies the signed bearer tokens handed to
// clients at login. A token carries the session ID plus the identity it
// was minted for; the registry stays the source of truth, so verifying a
// token never implies the session is still live.
package token
