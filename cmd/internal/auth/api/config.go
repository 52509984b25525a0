package authapi

import "net/http"

// Config controls the auth HTTP surface: cookie attributes and the input
// policy applied before hashing.
type Config struct {
	CookiePath   string
	CookieDomain string
	CookieSecure bool
	SameSite     http.SameSite

	// MinPasswordLen applies at signup and reset; stored hashes are never
	// re-checked against it.
	MinPasswordLen int

	// MaxBodyBytes bounds request bodies on every auth endpoint.
	MaxBodyBytes int64
}

// DefaultConfig returns production-safe defaults.
func DefaultConfig() Config {
	return Config{
		CookiePath:     "/",
		CookieSecure:   true,
		SameSite:       http.SameSiteLaxMode,
		MinPasswordLen: 8,
		MaxBodyBytes:   1 << 16,
	}
}
