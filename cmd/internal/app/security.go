package app

import (
	"errors"

	"callboard/cmd/security/token"
)

// LoadSecurityConfig loads and enforces the session-token policy at startup.
//
// Fail-fast is intentional: the server must never come up signing sessions
// with a missing or weak secret. There is no default secret and no fallback.
func LoadSecurityConfig() (token.Config, error) {
	cfg, err := token.LoadConfigFromEnv()
	if err != nil {
		switch {
		case errors.Is(err, token.ErrSecretMissing):
			return token.Config{}, errors.New("security policy: " + token.EnvSecret + " is required and has no default")
		case errors.Is(err, token.ErrSecretTooShort):
			return token.Config{}, errors.New("security policy: " + token.EnvSecret + " is too short (min 32 bytes)")
		default:
			return token.Config{}, err
		}
	}
	return cfg, nil
}
