package verification

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists verification codes in PostgreSQL.
//
// The pool is owned by the caller. Identifiers are quoted via pgx.Identifier;
// all values go through placeholders.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// StoreOption configures PostgresStore.
type StoreOption func(*PostgresStore) error

var identRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithSchema sets the DB schema used by the store (default "callboard").
func WithSchema(schema string) StoreOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" || !identRe.MatchString(schema) {
			return fmt.Errorf("verification: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool, opts ...StoreOption) (*PostgresStore, error) {
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
		return nil, fmt.Errorf("verification: nil pool")
	}
	return st, nil
}

// ReplaceActive deletes unused codes for (subject, purpose) and inserts the
// new row inside a single transaction, so concurrent generates cannot leave
// two active codes behind.
func (s *PostgresStore) ReplaceActive(ctx context.Context, in Code) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(in.ID) == "" || strings.TrimSpace(in.SubjectID) == "" || !in.Purpose.Valid() {
		return ErrInvalidInput
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	codes := s.ident("verification_codes")

	_, err = tx.Exec(ctx,
		`DELETE FROM `+codes+`
		  WHERE subject_id = $1 AND purpose = $2 AND used = FALSE`,
		in.SubjectID, in.Purpose.String(),
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO `+codes+` (
		     id, subject_id, code, purpose, expires_at, used, created_at
		   ) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		in.ID, in.SubjectID, in.Code, in.Purpose.String(), in.ExpiresAt, in.Used, in.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// FindByCode fetches the exact (subject, code, purpose) row.
func (s *PostgresStore) FindByCode(ctx context.Context, subjectID, code string, purpose Purpose) (Code, error) {
	if err := ctx.Err(); err != nil {
		return Code{}, err
	}
	if strings.TrimSpace(subjectID) == "" || strings.TrimSpace(code) == "" || !purpose.Valid() {
		return Code{}, ErrInvalidInput
	}

	codes := s.ident("verification_codes")
	var out Code
	var purposeStr string
	err := s.pool.QueryRow(ctx,
		`SELECT id, subject_id, code, purpose, expires_at, used, created_at
		   FROM `+codes+`
		  WHERE subject_id = $1 AND code = $2 AND purpose = $3`,
		subjectID, code, purpose.String(),
	).Scan(
		&out.ID,
		&out.SubjectID,
		&out.Code,
		&purposeStr,
		&out.ExpiresAt,
		&out.Used,
		&out.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Code{}, ErrNotFound
		}
		return Code{}, err
	}
	out.Purpose = Purpose(purposeStr)
	return out, nil
}

// MarkUsed flips the used flag; it never flips back.
func (s *PostgresStore) MarkUsed(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}

	codes := s.ident("verification_codes")
	tag, err := s.pool.Exec(ctx,
		`UPDATE `+codes+` SET used = TRUE WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpired removes rows past expiry and returns the count.
func (s *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	codes := s.ident("verification_codes")
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM `+codes+` WHERE expires_at < $1`,
		now,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) ident(table string) string {
	return pgx.Identifier{s.schema, table}.Sanitize()
}
