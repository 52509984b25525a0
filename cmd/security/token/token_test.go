package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func testService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()

	svc, err := NewService(Config{
		Secret: []byte("0123456789abcdef0123456789abcdef"),
		TTL:    ttl,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestIssueAndValidate_Success(t *testing.T) {
	t.Parallel()

	svc := testService(t, time.Hour)
	now := time.Now().UTC().Truncate(time.Second)

	tok, exp, err := svc.Issue("person:abc123", "chris", "chris@example.com", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !exp.Equal(now.Add(time.Hour)) {
		t.Fatalf("exp=%v want=%v", exp, now.Add(time.Hour))
	}

	claims, err := svc.Validate(tok, now.Add(time.Second))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.Subject != "person:abc123" {
		t.Fatalf("subject=%q", claims.Subject)
	}
	if claims.Username != "chris" || claims.Email != "chris@example.com" {
		t.Fatalf("claims=%+v", claims)
	}
	if !claims.ExpiresAt.After(claims.IssuedAt) {
		t.Fatalf("expiry %v not after issued-at %v", claims.ExpiresAt, claims.IssuedAt)
	}
}

func TestValidate_Expired(t *testing.T) {
	t.Parallel()

	svc := testService(t, time.Minute)
	now := time.Now().UTC()

	tok, _, err := svc.Issue("person:abc123", "chris", "chris@example.com", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = svc.Validate(tok, now.Add(2*time.Minute))
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}

func TestValidate_TamperedSignature(t *testing.T) {
	t.Parallel()

	svc := testService(t, time.Hour)
	now := time.Now().UTC()

	tok, _, err := svc.Issue("person:abc123", "chris", "chris@example.com", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Flip one byte in the signature segment.
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", tok)
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = svc.Validate(tampered, now)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for tampered token, got %v", err)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := testService(t, time.Hour)
	now := time.Now().UTC()

	tok, _, err := issuer.Issue("person:abc123", "chris", "chris@example.com", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other, err := NewService(Config{Secret: []byte("ffffffffffffffffffffffffffffffff")})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = other.Validate(tok, now)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong secret, got %v", err)
	}
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()

	svc := testService(t, time.Hour)
	now := time.Now().UTC()

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c"} {
		if _, err := svc.Validate(tok, now); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("token %q: expected ErrUnauthorized, got %v", tok, err)
		}
	}
}

func TestNewService_SecretPolicy(t *testing.T) {
	t.Parallel()

	if _, err := NewService(Config{}); !errors.Is(err, ErrSecretMissing) {
		t.Fatalf("expected ErrSecretMissing, got %v", err)
	}
	if _, err := NewService(Config{Secret: []byte("short")}); !errors.Is(err, ErrSecretTooShort) {
		t.Fatalf("expected ErrSecretTooShort, got %v", err)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv(EnvSecret, "0123456789abcdef0123456789abcdef")
	t.Setenv(EnvTTLSeconds, "3600")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv: %v", err)
	}
	if cfg.TTL != time.Hour {
		t.Fatalf("ttl=%v", cfg.TTL)
	}

	t.Setenv(EnvTTLSeconds, "")
	cfg, err = LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv: %v", err)
	}
	if cfg.TTL != DefaultTTL {
		t.Fatalf("default ttl=%v want %v", cfg.TTL, DefaultTTL)
	}

	t.Setenv(EnvSecret, "")
	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrSecretMissing) {
		t.Fatalf("expected ErrSecretMissing, got %v", err)
	}

	t.Setenv(EnvSecret, "tiny")
	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrSecretTooShort) {
		t.Fatalf("expected ErrSecretTooShort, got %v", err)
	}

	t.Setenv(EnvSecret, "0123456789abcdef0123456789abcdef")
	t.Setenv(EnvTTLSeconds, "-5")
	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig for negative ttl, got %v", err)
	}
}
