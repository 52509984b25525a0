package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"callboard/cmd/identity/ids"
)

// codeSpan is the size of the 6-digit code range [100000, 999999].
// The lower bound excludes values that would need leading zeros.
const (
	codeMin  = 100000
	codeSpan = 900000
)

// Service issues and consumes verification codes. Stateless; every call
// commits independently through the store.
type Service struct {
	store Store
}

// NewService constructs a Service.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, ErrInvalidInput
	}
	return &Service{store: store}, nil
}

// GenerateInput describes a code issuance.
type GenerateInput struct {
	SubjectID string
	Purpose   Purpose
	Now       time.Time
}

// VerifyInput describes a code consumption attempt.
type VerifyInput struct {
	SubjectID string
	Code      string
	Purpose   Purpose
	Now       time.Time
}

// Generate issues a fresh code for (subject, purpose), atomically superseding
// any unused prior codes, and returns the plaintext code. Delivery is the
// caller's job.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	subjectID := strings.TrimSpace(in.SubjectID)
	if subjectID == "" || !in.Purpose.Valid() {
		return "", ErrInvalidInput
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	code, err := newCode()
	if err != nil {
		return "", err
	}

	id, err := ids.NewULID(now)
	if err != nil {
		return "", err
	}

	err = s.store.ReplaceActive(ctx, Code{
		ID:        id,
		SubjectID: subjectID,
		Code:      code,
		Purpose:   in.Purpose,
		ExpiresAt: now.Add(in.Purpose.TTL()),
		Used:      false,
		CreatedAt: now,
	})
	if err != nil {
		return "", err
	}

	return code, nil
}

// Verify consumes a code. Outcomes, in check order:
//   - no matching row                -> ErrNotFound
//   - row matched but already used   -> ErrAlreadyUsed
//   - row matched but past expiry    -> ErrExpired (row left in place)
//   - otherwise: used flips to true and the call succeeds.
func (s *Service) Verify(ctx context.Context, in VerifyInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subjectID := strings.TrimSpace(in.SubjectID)
	code := strings.TrimSpace(in.Code)
	if subjectID == "" || code == "" || !in.Purpose.Valid() {
		return ErrInvalidInput
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	row, err := s.store.FindByCode(ctx, subjectID, code, in.Purpose)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if row.Used {
		return ErrAlreadyUsed
	}
	if now.After(row.ExpiresAt) {
		return ErrExpired
	}

	return s.store.MarkUsed(ctx, row.ID)
}

// Cleanup removes every expired row, used or not, and reports the count.
// Intended for a periodic external scheduler, not request-serving code.
func (s *Service) Cleanup(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return s.store.DeleteExpired(ctx, now)
}

// newCode draws a uniform 6-digit code from [100000, 999999].
func newCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+codeMin), nil
}
