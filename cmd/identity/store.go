package identity

import (
	"context"
	"time"
)

// User is Callboard's canonical security principal.
//
// PasswordHash is the opaque encoded credential produced by
// security/password; identity never parses it. EmailVerifiedAt is nil until
// the user completes email verification.
type User struct {
	ID           string
	Username     string
	UsernameNorm string
	Email        string
	EmailNorm    string

	PasswordHash    string
	EmailVerifiedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateUserInput describes a user registration request.
// Username, Email and PasswordHash are all required; hashing happens at the
// caller so the store never sees a plaintext password.
type CreateUserInput struct {
	Username     string
	Email        string
	PasswordHash string
	Now          time.Time
}

// Directory is the read-only resolution surface the session middleware uses.
// Lookup is by the validated token's subject id, never by a client-claimed
// username.
type Directory interface {
	GetBySubject(ctx context.Context, subjectID string) (User, error)
}

// Store is the identity persistence boundary.
type Store interface {
	Directory

	CreateUser(ctx context.Context, in CreateUserInput) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)

	// UpdatePasswordHash replaces the credential wholesale; credentials are
	// never mutated in place.
	UpdatePasswordHash(ctx context.Context, subjectID, passwordHash string, now time.Time) error

	// MarkEmailVerified records the first successful email verification.
	// Calling it again is a no-op.
	MarkEmailVerified(ctx context.Context, subjectID string, now time.Time) error
}
