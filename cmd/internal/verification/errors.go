package verification

import "errors"

var (
	// ErrInvalidInput reports missing/ill-formed arguments.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound: no row matches (subject, code, purpose). Also returned for
	// a wrong code against an existing subject+purpose.
	ErrNotFound = errors.New("verification code not found")

	// ErrAlreadyUsed: the code was consumed before. The used flag is
	// monotonic; it never resets.
	ErrAlreadyUsed = errors.New("verification code already used")

	// ErrExpired: the code matched but its expiry has passed. The row is left
	// in place for the cleanup sweep.
	ErrExpired = errors.New("verification code expired")
)
