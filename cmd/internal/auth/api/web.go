package authapi

import (
	"net/http"
	"time"

	"callboard/cmd/internal/auth/session"
)

func (h *Handler) setSessionCookies(w http.ResponseWriter, token, username string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieAuthToken,
		Value:    token,
		Path:     h.cfg.CookiePath,
		Domain:   h.cfg.CookieDomain,
		Expires:  exp,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: h.cfg.SameSite,
	})

	// Display-only; identity always comes from the signed token.
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieUsername,
		Value:    username,
		Path:     h.cfg.CookiePath,
		Domain:   h.cfg.CookieDomain,
		Expires:  exp,
		HttpOnly: false,
		Secure:   h.cfg.CookieSecure,
		SameSite: h.cfg.SameSite,
	})
}

func (h *Handler) clearSessionCookies(w http.ResponseWriter) {
	h.expireCookie(w, session.CookieAuthToken, true)
	h.expireCookie(w, session.CookieUsername, false)
}

func (h *Handler) expireCookie(w http.ResponseWriter, name string, httpOnly bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     h.cfg.CookiePath,
		Domain:   h.cfg.CookieDomain,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: httpOnly,
		Secure:   h.cfg.CookieSecure,
		SameSite: h.cfg.SameSite,
	})
}
