package verification

import (
	"context"
	"strings"
	"sync"
	"time"
)

// InMemoryStore is a dev/test fallback when DB is not configured.
// ReplaceActive holds the lock across delete+insert, giving the same
// atomicity the Postgres transaction provides.
type InMemoryStore struct {
	mu    sync.Mutex
	codes map[string]Code // id -> code
}

// NewInMemoryStore constructs an in-memory Store implementation.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{codes: make(map[string]Code)}
}

// ReplaceActive deletes unused codes for (subject, purpose) and inserts in.
func (s *InMemoryStore) ReplaceActive(ctx context.Context, in Code) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(in.ID) == "" || strings.TrimSpace(in.SubjectID) == "" || !in.Purpose.Valid() {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.codes {
		if c.SubjectID == in.SubjectID && c.Purpose == in.Purpose && !c.Used {
			delete(s.codes, id)
		}
	}
	s.codes[in.ID] = in
	return nil
}

// FindByCode fetches the exact (subject, code, purpose) row.
func (s *InMemoryStore) FindByCode(ctx context.Context, subjectID, code string, purpose Purpose) (Code, error) {
	if err := ctx.Err(); err != nil {
		return Code{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.codes {
		if c.SubjectID == subjectID && c.Code == code && c.Purpose == purpose {
			return c, nil
		}
	}
	return Code{}, ErrNotFound
}

// MarkUsed flips the used flag.
func (s *InMemoryStore) MarkUsed(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.codes[id]
	if !ok {
		return ErrNotFound
	}
	c.Used = true
	s.codes[id] = c
	return nil
}

// DeleteExpired removes rows past expiry and returns the count.
func (s *InMemoryStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, c := range s.codes {
		if c.ExpiresAt.Before(now) {
			delete(s.codes, id)
			n++
		}
	}
	return n, nil
}

// ActiveCount reports unused, unexpired codes for (subject, purpose).
// Test helper for the single-active-code invariant.
func (s *InMemoryStore) ActiveCount(subjectID string, purpose Purpose, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, c := range s.codes {
		if c.SubjectID == subjectID && c.Purpose == purpose && !c.Used && c.ExpiresAt.After(now) {
			n++
		}
	}
	return n
}
