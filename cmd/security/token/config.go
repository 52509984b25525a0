package token

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// EnvSecret is the env var holding the signing secret.
	// #nosec G101 -- not a credential; it's an environment variable name.
	EnvSecret = "CALLBOARD_SESSION_SECRET"

	// EnvTTLSeconds overrides the session duration, in whole seconds.
	EnvTTLSeconds = "CALLBOARD_SESSION_TTL_SECONDS"

	// MinSecretBytes is the minimum secret length for HMAC-SHA256.
	// Measured in bytes, not runes; the key is used as raw bytes.
	MinSecretBytes = 32

	// DefaultTTL is the default session duration (43200s).
	DefaultTTL = 12 * time.Hour
)

// Config defines the runtime configuration for session tokens.
type Config struct {
	// Secret is the HMAC-SHA256 signing key. Required.
	Secret []byte

	// TTL is the session duration applied at issue time.
	TTL time.Duration
}

// DefaultConfig returns a Config with the default TTL and no secret.
// The secret has no default on purpose.
func DefaultConfig() Config {
	return Config{TTL: DefaultTTL}
}

// LoadConfigFromEnv loads token configuration from environment variables.
//
// Required:
//   - CALLBOARD_SESSION_SECRET (>= 32 bytes)
//
// Optional:
//   - CALLBOARD_SESSION_TTL_SECONDS (positive integer, default 43200)
//
// A missing or short secret is a hard error; callers are expected to fail
// startup rather than substitute a built-in default.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	raw := strings.TrimSpace(os.Getenv(EnvSecret))
	if raw == "" {
		return Config{}, ErrSecretMissing
	}
	if len(raw) < MinSecretBytes {
		return Config{}, ErrSecretTooShort
	}
	cfg.Secret = []byte(raw)

	if v := strings.TrimSpace(os.Getenv(EnvTTLSeconds)); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, ErrConfig
		}
		cfg.TTL = time.Duration(n) * time.Second
	}

	return cfg, nil
}
