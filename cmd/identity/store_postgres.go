package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store over PostgreSQL.
//
// Design notes:
//   - The pgx pool is owned by the caller; this store must NOT close it.
//   - Schema/table identifiers are quoted via pgx.Identifier; all values go
//     through placeholders.
//   - Unique violations are mapped to ConflictError with a logical field name.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

var pgIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithSchema sets the Postgres schema used by the store (default "callboard").
// The name is validated to be a legal PostgreSQL identifier.
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" || !pgIdentRe.MatchString(schema) {
			return fmt.Errorf("identity: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{pool: pool, schema: "callboard"}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}
	return st, nil
}

const userColumns = `id, username, username_norm, email, email_norm, password_hash, email_verified_at, created_at, updated_at`

// CreateUser inserts a new user row.
func (s *PostgresStore) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.CreateUser"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "username is required"}
	}
	if email == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "email is required"}
	}
	if strings.TrimSpace(in.PasswordHash) == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "password hash is required"}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	userID, err := NewULID(now)
	if err != nil {
		return User{}, err
	}

	u := User{
		ID:           userID,
		Username:     username,
		UsernameNorm: NormalizeUsername(username),
		Email:        email,
		EmailNorm:    NormalizeEmail(email),
		PasswordHash: in.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	users := s.ident("users")
	_, err = s.pool.Exec(ctx,
		`INSERT INTO `+users+` (
		     id, username, username_norm, email, email_norm, password_hash, created_at, updated_at
		   ) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		u.ID, u.Username, u.UsernameNorm, u.Email, u.EmailNorm, u.PasswordHash, now,
	)
	if err != nil {
		if field, ok := classifyUniqueViolation(err); ok {
			return User{}, ConflictError{Op: op, Field: field}
		}
		return User{}, err
	}

	return u, nil
}

// GetBySubject fetches a user by id.
func (s *PostgresStore) GetBySubject(ctx context.Context, subjectID string) (User, error) {
	const op = "identity.GetBySubject"

	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "missing subject id"}
	}

	return s.getOne(ctx, op, `WHERE id = $1`, subjectID)
}

// GetByUsername fetches a user by normalized username.
func (s *PostgresStore) GetByUsername(ctx context.Context, username string) (User, error) {
	const op = "identity.GetByUsername"

	norm := NormalizeUsername(username)
	if norm == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "missing username"}
	}

	return s.getOne(ctx, op, `WHERE username_norm = $1`, norm)
}

// GetByEmail fetches a user by normalized email.
func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (User, error) {
	const op = "identity.GetByEmail"

	norm := NormalizeEmail(email)
	if norm == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "missing email"}
	}

	return s.getOne(ctx, op, `WHERE email_norm = $1`, norm)
}

// UpdatePasswordHash replaces the stored credential for a user.
func (s *PostgresStore) UpdatePasswordHash(ctx context.Context, subjectID, passwordHash string, now time.Time) error {
	const op = "identity.UpdatePasswordHash"

	if strings.TrimSpace(subjectID) == "" || strings.TrimSpace(passwordHash) == "" {
		return OpError{Op: op, Kind: ErrInvalidInput, Msg: "missing subject id or hash"}
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	users := s.ident("users")
	tag, err := s.pool.Exec(ctx,
		`UPDATE `+users+` SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		passwordHash, now, subjectID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return NotFoundError{Op: op, Resource: "user"}
	}
	return nil
}

// MarkEmailVerified sets email_verified_at once; later calls keep the first
// timestamp.
func (s *PostgresStore) MarkEmailVerified(ctx context.Context, subjectID string, now time.Time) error {
	const op = "identity.MarkEmailVerified"

	if strings.TrimSpace(subjectID) == "" {
		return OpError{Op: op, Kind: ErrInvalidInput, Msg: "missing subject id"}
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	users := s.ident("users")
	tag, err := s.pool.Exec(ctx,
		`UPDATE `+users+`
		    SET email_verified_at = COALESCE(email_verified_at, $1),
		        updated_at = $1
		  WHERE id = $2`,
		now, subjectID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return NotFoundError{Op: op, Resource: "user"}
	}
	return nil
}

func (s *PostgresStore) getOne(ctx context.Context, op, where string, arg any) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	users := s.ident("users")
	var u User
	err := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM `+users+` `+where, arg,
	).Scan(
		&u.ID,
		&u.Username,
		&u.UsernameNorm,
		&u.Email,
		&u.EmailNorm,
		&u.PasswordHash,
		&u.EmailVerifiedAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, NotFoundError{Op: op, Resource: "user"}
		}
		return User{}, err
	}
	return u, nil
}

func (s *PostgresStore) ident(table string) string {
	return pgx.Identifier{s.schema, table}.Sanitize()
}

// classifyUniqueViolation maps a pg unique violation to a logical field name.
func classifyUniqueViolation(err error) (field string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	if pgErr.Code != "23505" { // unique_violation
		return "", false
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "username"):
		return "username", true
	case strings.Contains(pgErr.ConstraintName, "email"):
		return "email", true
	default:
		return "unknown", true
	}
}
