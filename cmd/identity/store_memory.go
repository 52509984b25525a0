package identity

import (
	"context"
	"strings"
	"sync"
	"time"
)

// InMemoryStore is a dev/test fallback when DB is not configured.
// It mirrors PostgresStore semantics, including uniqueness on normalized
// username and email.
type InMemoryStore struct {
	mu    sync.Mutex
	users map[string]User // id -> user
}

// NewInMemoryStore constructs an in-memory Store implementation.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[string]User)}
}

// CreateUser inserts a new user, enforcing normalized uniqueness.
func (s *InMemoryStore) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.CreateUser"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || strings.TrimSpace(in.PasswordHash) == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "username, email and password hash are required"}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := NewULID(now)
	if err != nil {
		return User{}, err
	}

	u := User{
		ID:           id,
		Username:     username,
		UsernameNorm: NormalizeUsername(username),
		Email:        email,
		EmailNorm:    NormalizeEmail(email),
		PasswordHash: in.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.UsernameNorm == u.UsernameNorm {
			return User{}, ConflictError{Op: op, Field: "username"}
		}
		if existing.EmailNorm == u.EmailNorm {
			return User{}, ConflictError{Op: op, Field: "email"}
		}
	}

	s.users[u.ID] = u
	return u, nil
}

// GetBySubject fetches a user by id.
func (s *InMemoryStore) GetBySubject(ctx context.Context, subjectID string) (User, error) {
	const op = "identity.GetBySubject"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[strings.TrimSpace(subjectID)]
	if !ok {
		return User{}, NotFoundError{Op: op, Resource: "user"}
	}
	return u, nil
}

// GetByUsername fetches a user by normalized username.
func (s *InMemoryStore) GetByUsername(ctx context.Context, username string) (User, error) {
	return s.findOne(ctx, "identity.GetByUsername", func(u User) bool {
		return u.UsernameNorm == NormalizeUsername(username)
	})
}

// GetByEmail fetches a user by normalized email.
func (s *InMemoryStore) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.findOne(ctx, "identity.GetByEmail", func(u User) bool {
		return u.EmailNorm == NormalizeEmail(email)
	})
}

// UpdatePasswordHash replaces the stored credential.
func (s *InMemoryStore) UpdatePasswordHash(ctx context.Context, subjectID, passwordHash string, now time.Time) error {
	const op = "identity.UpdatePasswordHash"

	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(passwordHash) == "" {
		return OpError{Op: op, Kind: ErrInvalidInput, Msg: "missing hash"}
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[strings.TrimSpace(subjectID)]
	if !ok {
		return NotFoundError{Op: op, Resource: "user"}
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = now
	s.users[u.ID] = u
	return nil
}

// MarkEmailVerified records the first verification time.
func (s *InMemoryStore) MarkEmailVerified(ctx context.Context, subjectID string, now time.Time) error {
	const op = "identity.MarkEmailVerified"

	if err := ctx.Err(); err != nil {
		return err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[strings.TrimSpace(subjectID)]
	if !ok {
		return NotFoundError{Op: op, Resource: "user"}
	}
	if u.EmailVerifiedAt == nil {
		t := now
		u.EmailVerifiedAt = &t
	}
	u.UpdatedAt = now
	s.users[u.ID] = u
	return nil
}

func (s *InMemoryStore) findOne(ctx context.Context, op string, match func(User) bool) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if match(u) {
			return u, nil
		}
	}
	return User{}, NotFoundError{Op: op, Resource: "user"}
}
