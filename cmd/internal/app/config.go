package app

import (
	"net/http"
	"time"
)

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogPretty bool

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// If true, pending schema migrations run before the server accepts traffic.
	MigrateOnStart bool

	// If true:
	// - /readyz returns 503 unless DB is configured and reachable.
	ReadinessRequireDB bool

	// Cookie policy for the auth surface.
	CookieDomain string
	CookieSecure bool

	MinPasswordLen int

	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CORSMaxAgeSeconds    int
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("CALLBOARD_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("CALLBOARD_LOG_LEVEL", "info"),
		LogPretty: EnvBool("CALLBOARD_LOG_PRETTY", false),

		ReadHeaderTimeout: EnvDuration("CALLBOARD_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("CALLBOARD_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("CALLBOARD_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("CALLBOARD_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("CALLBOARD_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("CALLBOARD_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("CALLBOARD_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("CALLBOARD_DB_MIN_CONNS", 0),

		MigrateOnStart: EnvBool("CALLBOARD_MIGRATE_ON_START", true),

		ReadinessRequireDB: EnvBool("CALLBOARD_READINESS_REQUIRE_DB", false),

		CookieDomain: EnvString("CALLBOARD_COOKIE_DOMAIN", ""),
		CookieSecure: EnvBool("CALLBOARD_COOKIE_SECURE", true),

		MinPasswordLen: EnvInt("CALLBOARD_MIN_PASSWORD_LEN", 8),

		CORSAllowedOrigins:   EnvStrings("CALLBOARD_CORS_ALLOWED_ORIGINS", nil),
		CORSAllowCredentials: EnvBool("CALLBOARD_CORS_ALLOW_CREDENTIALS", true),
		CORSMaxAgeSeconds:    EnvInt("CALLBOARD_CORS_MAX_AGE_SECONDS", 600),
	}
}

// SameSite is the cookie SameSite policy derived from the CORS posture.
// Cross-origin credentialed setups need None; the default is Lax.
func (c Config) SameSite() http.SameSite {
	if len(c.CORSAllowedOrigins) > 0 && c.CORSAllowCredentials && c.CookieSecure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
