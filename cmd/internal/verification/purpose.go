package verification

import "time"

// Purpose is the closed set of reasons a code can be issued for.
// Serialized as lowercase snake-case strings in storage and on the wire.
type Purpose string

const (
	// PurposeEmailVerification confirms ownership of a signup email.
	PurposeEmailVerification Purpose = "email_verification"
	// PurposePasswordReset authorizes a password reset.
	PurposePasswordReset Purpose = "password_reset"
)

// TTL returns the purpose-specific validity window.
func (p Purpose) TTL() time.Duration {
	switch p {
	case PurposePasswordReset:
		return time.Hour
	default:
		return 24 * time.Hour
	}
}

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	switch p {
	case PurposeEmailVerification, PurposePasswordReset:
		return true
	default:
		return false
	}
}

func (p Purpose) String() string { return string(p) }
