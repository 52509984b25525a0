package session

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"callboard/cmd/identity"
	"callboard/cmd/security/token"
)

// Cookie names on the platform's cookie surface.
const (
	// CookieAuthToken carries the signed session token.
	CookieAuthToken = "auth_token"

	// CookieUsername is display-only. It is set at login so templates can
	// greet the user before any round trip, and is never consulted for
	// identity.
	CookieUsername = "username"
)

// Authenticator annotates requests with the caller's identity.
type Authenticator struct {
	log    *slog.Logger
	tokens *token.Service
	dir    identity.Directory
}

// NewAuthenticator constructs the middleware.
func NewAuthenticator(log *slog.Logger, tokens *token.Service, dir identity.Directory) (*Authenticator, error) {
	if tokens == nil || dir == nil {
		return nil, errors.New("session: nil token service or directory")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Authenticator{log: log, tokens: tokens, dir: dir}, nil
}

// Middleware wraps next so every request carries at most one resolved
// identity. Per-request state machine:
//
//	no cookie            -> anonymous, continue
//	token invalid        -> anonymous, continue (debug log only)
//	subject not in store -> anonymous, continue (error log: stale token)
//	otherwise            -> user attached to context
//
// No failure here ever blocks or fails the request.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(CookieAuthToken)
		if err != nil || strings.TrimSpace(c.Value) == "" {
			authOutcomes.WithLabelValues(outcomeNoCookie).Inc()
			next.ServeHTTP(w, r)
			return
		}

		now := time.Now().UTC()

		claims, err := a.tokens.Validate(strings.TrimSpace(c.Value), now)
		if err != nil {
			// Expired, tampered and malformed all land here; the token layer
			// does not tell them apart and neither do we.
			authOutcomes.WithLabelValues(outcomeInvalidToken).Inc()
			a.log.Debug("session.token.invalid", "path", r.URL.Path)
			next.ServeHTTP(w, r)
			return
		}

		user, err := a.dir.GetBySubject(r.Context(), claims.Subject)
		if err != nil {
			if identity.IsNotFound(err) {
				// A valid token for a subject that no longer exists: the
				// account was deleted or renamed after issuance.
				authOutcomes.WithLabelValues(outcomeUnknownSubject).Inc()
				a.log.Error("session.subject.unknown", "subject", claims.Subject)
			} else {
				authOutcomes.WithLabelValues(outcomeStoreError).Inc()
				a.log.Error("session.directory.error", "err", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		authOutcomes.WithLabelValues(outcomeAuthenticated).Inc()
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}
