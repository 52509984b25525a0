// Package token issues and validates Callboard session tokens.
//
// Tokens are JWTs signed with HMAC-SHA256 over a symmetric secret. The claim
// set is deliberately small: subject id, username, email, issued-at, expiry.
// Nothing else is encoded, and nothing is persisted server-side; a token is
// self-contained for its lifetime.
//
// Failure policy: Validate reports every failure (bad signature, malformed
// token, expired) as ErrUnauthorized. Callers must not learn which check
// failed; distinguishing expired from tampered tokens is an information
// side channel.
//
// The signing secret is injected via Config at startup. There is no default
// secret and no env fallback inside this package; a deployment without a
// secret must fail before serving traffic (see app.ValidateSecurityConfig).
//
// Signature-free decoding for offline diagnostics lives in the unchecked
// subpackage. Nothing under cmd/internal may import it.
package token
