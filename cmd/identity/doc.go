// Package identity is Callboard's user directory.
//
// It defines the canonical User principal, the persistence boundary used by
// signup/login and by the session middleware, and the error kinds those
// callers branch on. Postgres backs production; the memory store backs tests
// and DB-less development mode.
//
// This package is intentionally dependency-light and security-first: it
// stores password hashes as opaque strings and never inspects them.
package identity
