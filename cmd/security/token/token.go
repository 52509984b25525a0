package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity envelope carried inside a session token.
// ExpiresAt is always strictly after IssuedAt.
type Claims struct {
	Subject   string
	Username  string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// sessionClaims is the wire shape of Claims.
type sessionClaims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Service issues and validates session tokens. It is stateless and safe for
// concurrent use; the only shared state is the read-only secret and TTL.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService constructs a Service from cfg. The secret is mandatory and must
// meet the minimum length; TTL falls back to DefaultTTL when unset.
func NewService(cfg Config) (*Service, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrSecretMissing
	}
	if len(cfg.Secret) < MinSecretBytes {
		return nil, ErrSecretTooShort
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: cfg.Secret, ttl: ttl}, nil
}

// TTL returns the configured session duration.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue signs a session token for the given identity.
// issued-at is now, expiry is now + TTL; both are second-granular epoch
// timestamps on the wire.
func (s *Service) Issue(subject, username, email string, now time.Time) (string, time.Time, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	exp := now.Add(s.ttl)

	claims := sessionClaims{
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Validate verifies the signature and expiry of tokenStr and returns its
// claims. Every failure surfaces as ErrUnauthorized; callers cannot tell a
// tampered token from an expired one, by design.
func (s *Service) Validate(tokenStr string, now time.Time) (Claims, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	parsed := &sessionClaims{}
	tok, err := jwt.ParseWithClaims(tokenStr, parsed,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !tok.Valid {
		return Claims{}, ErrUnauthorized
	}
	if parsed.Subject == "" || parsed.IssuedAt == nil || parsed.ExpiresAt == nil {
		return Claims{}, ErrUnauthorized
	}

	return Claims{
		Subject:   parsed.Subject,
		Username:  parsed.Username,
		Email:     parsed.Email,
		IssuedAt:  parsed.IssuedAt.Time,
		ExpiresAt: parsed.ExpiresAt.Time,
	}, nil
}
