// Package session authenticates inbound HTTP requests from cookies.
//
// The middleware reads the auth_token cookie, validates it with
// security/token, resolves the validated subject through the identity
// directory, and attaches the resolved user to the request context. It never
// rejects a request: every failure path simply leaves the request
// unauthenticated and lets it proceed, so downstream handlers decide what
// anonymous callers may do.
//
// Identity comes exclusively from the validated token's subject claim. The
// legacy username cookie is set at login for client display but is never read
// back for identity; a spoofed username cookie changes nothing.
package session
