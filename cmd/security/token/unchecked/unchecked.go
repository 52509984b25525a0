// Package unchecked decodes session tokens WITHOUT verifying signature or
// expiry. It exists for offline diagnostics only (inspecting a token a user
// pasted into a support ticket, post-incident forensics).
//
// It is deliberately a separate package so that the import line is visible in
// review: nothing under cmd/internal may import it, and no handler registered
// on the server mux may reach it.
package unchecked

import (
	"github.com/golang-jwt/jwt/v5"

	"callboard/cmd/security/token"
)

// wireClaims mirrors the signed token payload.
type wireClaims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Decode parses tokenStr and returns its claims without any verification.
// The returned claims are UNTRUSTED: the signature is not checked and the
// token may be expired or forged. The only error is a malformed token.
func Decode(tokenStr string) (token.Claims, error) {
	parsed := &wireClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, parsed); err != nil {
		return token.Claims{}, err
	}

	out := token.Claims{
		Subject:  parsed.Subject,
		Username: parsed.Username,
		Email:    parsed.Email,
	}
	if parsed.IssuedAt != nil {
		out.IssuedAt = parsed.IssuedAt.Time
	}
	if parsed.ExpiresAt != nil {
		out.ExpiresAt = parsed.ExpiresAt.Time
	}
	return out, nil
}
