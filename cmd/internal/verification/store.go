package verification

import (
	"context"
	"time"
)

// Code is a stored verification code row.
type Code struct {
	ID        string
	SubjectID string
	Code      string
	Purpose   Purpose
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// Store is the persistence boundary for verification codes.
//
// All queries are typed and parameterized; there is no free-form query
// surface. ReplaceActive must be atomic so that two concurrent generates for
// the same (subject, purpose) cannot leave two active codes behind.
type Store interface {
	// ReplaceActive deletes all unused codes for (in.SubjectID, in.Purpose)
	// and inserts in, as one transaction.
	ReplaceActive(ctx context.Context, in Code) error

	// FindByCode fetches the row matching (subjectID, code, purpose) exactly,
	// used or not, expired or not.
	FindByCode(ctx context.Context, subjectID, code string, purpose Purpose) (Code, error)

	// MarkUsed flips used to true. The flag is monotonic.
	MarkUsed(ctx context.Context, id string) error

	// DeleteExpired removes rows with expires_at < now and reports how many.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
