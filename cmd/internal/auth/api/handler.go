// Package authapi wires the HTTP auth endpoints to the credential core:
// password hashing, token issuance, session cookies, and verification-code
// flows. It is deliberately thin; everything with security weight lives in
// the packages it calls.
package authapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"callboard/cmd/identity"
	"callboard/cmd/internal/auth/session"
	"callboard/cmd/internal/verification"
	"callboard/cmd/security/password"
	"callboard/cmd/security/token"
)

// Handler serves the auth endpoints.
type Handler struct {
	log *slog.Logger
	cfg Config

	users  identity.Store
	tokens *token.Service
	codes  *verification.Service

	email EmailSender

	// dummyHash keeps login timing flat when the username does not exist.
	dummyHash string
}

// HandlerOption configures optional dependencies.
type HandlerOption func(*Handler)

// WithEmailSender overrides the default no-op sender.
func WithEmailSender(sender EmailSender) HandlerOption {
	return func(h *Handler) {
		if sender != nil {
			h.email = sender
		}
	}
}

// NewHandler constructs an auth Handler.
func NewHandler(log *slog.Logger, cfg Config, users identity.Store, tokens *token.Service, codes *verification.Service, opts ...HandlerOption) (*Handler, error) {
	if users == nil || tokens == nil || codes == nil {
		return nil, errors.New("authapi: nil dependency")
	}
	if log == nil {
		log = slog.Default()
	}

	h := &Handler{
		log:    log,
		cfg:    cfg,
		users:  users,
		tokens: tokens,
		codes:  codes,
		email:  NoopEmailSender{},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(h)
	}

	if hash, err := password.Hash("dummy-password-for-timing-only"); err == nil {
		h.dummyHash = hash
	}

	return h, nil
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("POST /auth/signup", h.handleSignup)
	mux.HandleFunc("POST /auth/login", h.handleLogin)
	mux.HandleFunc("POST /auth/logout", h.handleLogout)
	mux.HandleFunc("POST /auth/email/verify", h.handleVerifyEmail)
	mux.HandleFunc("POST /auth/password/forgot", h.handleForgotPassword)
	mux.HandleFunc("POST /auth/password/reset", h.handleResetPassword)
	mux.HandleFunc("GET /me", h.handleMe)
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	switch {
	case username == "":
		writeError(w, http.StatusBadRequest, "invalid_input", "username is required")
		return
	case email == "" || !strings.Contains(email, "@"):
		writeError(w, http.StatusBadRequest, "invalid_input", "valid email is required")
		return
	case utf8.RuneCountInString(req.Password) < h.cfg.MinPasswordLen:
		writeError(w, http.StatusBadRequest, "weak_password", "password too short")
		return
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		h.log.Error("signup.hash.failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	now := time.Now().UTC()
	user, err := h.users.CreateUser(r.Context(), identity.CreateUserInput{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Now:          now,
	})
	if err != nil {
		var ce identity.ConflictError
		if errors.As(err, &ce) {
			writeError(w, http.StatusConflict, "conflict", ce.Field+" already taken")
			return
		}
		if identity.IsInvalidInput(err) {
			writeError(w, http.StatusBadRequest, "invalid_input", "invalid signup input")
			return
		}
		h.log.Error("signup.store.failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	h.issueEmailVerification(r, user, now)

	tok, exp, err := h.tokens.Issue(user.ID, user.Username, user.Email, now)
	if err != nil {
		h.log.Error("signup.token.failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	h.setSessionCookies(w, tok, user.Username, exp)

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	now := time.Now().UTC()

	user, lookupErr := h.users.GetByUsername(r.Context(), req.Username)
	if lookupErr != nil && !identity.IsNotFound(lookupErr) && !identity.IsInvalidInput(lookupErr) {
		h.log.Error("login.store.failed", "err", lookupErr)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	// Verify against a dummy hash when the user is missing so that the
	// response time does not reveal whether the username exists.
	credential := h.dummyHash
	if lookupErr == nil {
		credential = user.PasswordHash
	}

	ok, err := password.Verify(req.Password, credential)
	if err != nil {
		h.log.Error("login.credential.malformed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	if lookupErr != nil || !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid username or password")
		return
	}

	tok, exp, err := h.tokens.Issue(user.ID, user.Username, user.Email, now)
	if err != nil {
		h.log.Error("login.token.failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	h.setSessionCookies(w, tok, user.Username, exp)

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) handleLogout(w http.ResponseWriter, _ *http.Request) {
	// Tokens are stateless; logout just drops the cookies.
	h.clearSessionCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := session.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not signed in")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	user, ok := session.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not signed in")
		return
	}

	var req verifyEmailRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	now := time.Now().UTC()
	err := h.codes.Verify(r.Context(), verification.VerifyInput{
		SubjectID: user.ID,
		Code:      req.Code,
		Purpose:   verification.PurposeEmailVerification,
		Now:       now,
	})
	if !h.writeCodeOutcome(w, err) {
		return
	}

	if err := h.users.MarkEmailVerified(r.Context(), user.ID, now); err != nil {
		h.log.Error("email_verify.mark.failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	now := time.Now().UTC()

	// Uniform 202 whether or not the address exists; anything else is an
	// account-enumeration oracle.
	if user, err := h.users.GetByEmail(r.Context(), req.Email); err == nil {
		if code, genErr := h.codes.Generate(r.Context(), verification.GenerateInput{
			SubjectID: user.ID,
			Purpose:   verification.PurposePasswordReset,
			Now:       now,
		}); genErr == nil {
			h.sendCode(r, user.Email, verification.PurposePasswordReset, code)
		} else {
			h.log.Error("password_forgot.generate.failed", "err", genErr)
		}
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if utf8.RuneCountInString(req.NewPassword) < h.cfg.MinPasswordLen {
		writeError(w, http.StatusBadRequest, "weak_password", "password too short")
		return
	}

	now := time.Now().UTC()

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		// Same shape as a wrong code; do not reveal whether the email exists.
		writeError(w, http.StatusBadRequest, "invalid_code", "invalid verification code")
		return
	}

	err = h.codes.Verify(r.Context(), verification.VerifyInput{
		SubjectID: user.ID,
		Code:      req.Code,
		Purpose:   verification.PurposePasswordReset,
		Now:       now,
	})
	if !h.writeCodeOutcome(w, err) {
		return
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		h.log.Error("password_reset.hash.failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	if err := h.users.UpdatePasswordHash(r.Context(), user.ID, hash, now); err != nil {
		h.log.Error("password_reset.store.failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeCodeOutcome maps verification failures to their distinct API shapes.
// Returns true when the code was consumed successfully.
func (h *Handler) writeCodeOutcome(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, verification.ErrNotFound):
		writeError(w, http.StatusBadRequest, "invalid_code", "invalid verification code")
	case errors.Is(err, verification.ErrAlreadyUsed):
		writeError(w, http.StatusConflict, "code_used", "verification code already used")
	case errors.Is(err, verification.ErrExpired):
		writeError(w, http.StatusGone, "code_expired", "verification code expired")
	case errors.Is(err, verification.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", "missing verification code")
	default:
		h.log.Error("verification.store.failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
	return false
}

func (h *Handler) issueEmailVerification(r *http.Request, user identity.User, now time.Time) {
	code, err := h.codes.Generate(r.Context(), verification.GenerateInput{
		SubjectID: user.ID,
		Purpose:   verification.PurposeEmailVerification,
		Now:       now,
	})
	if err != nil {
		h.log.Error("signup.verification.failed", "err", err)
		return
	}
	h.sendCode(r, user.Email, verification.PurposeEmailVerification, code)
}

func (h *Handler) sendCode(r *http.Request, email string, purpose verification.Purpose, code string) {
	err := h.email.SendVerificationCode(r.Context(), CodeMessage{
		Email:   email,
		Purpose: purpose,
		Code:    code,
	})
	if err != nil {
		// Best-effort delivery; the user can request another code.
		h.log.Error("email.send.failed", "purpose", purpose.String(), "err", err)
	}
}
