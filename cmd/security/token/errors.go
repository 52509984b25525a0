package token

import "errors"

// Public, stable errors for callers.
var (
	// ErrUnauthorized covers every validation failure: bad signature,
	// malformed token, missing claims, expiry. Intentionally indistinct.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSecretMissing is returned when the signing secret is absent.
	ErrSecretMissing = errors.New("session signing secret missing")

	// ErrSecretTooShort is returned when the signing secret is under the
	// minimum byte length for HMAC-SHA256.
	ErrSecretTooShort = errors.New("session signing secret too short")

	// ErrConfig is returned for any other invalid configuration.
	ErrConfig = errors.New("invalid token config")
)
