package verification

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^[1-9][0-9]{5}$`)

func newTestService(t *testing.T) (*Service, *InMemoryStore) {
	t.Helper()

	store := NewInMemoryStore()
	svc, err := NewService(store)
	require.NoError(t, err)
	return svc, store
}

func TestGenerate_CodeShape(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	for range 32 {
		code, err := svc.Generate(ctx, GenerateInput{SubjectID: "person:abc123", Purpose: PurposePasswordReset})
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code, "codes are 6 digits with no leading zero")
	}
}

func TestGenerateThenVerify_SucceedsExactlyOnce(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	code, err := svc.Generate(ctx, GenerateInput{SubjectID: "person:abc123", Purpose: PurposePasswordReset, Now: now})
	require.NoError(t, err)

	in := VerifyInput{SubjectID: "person:abc123", Code: code, Purpose: PurposePasswordReset, Now: now.Add(time.Minute)}
	require.NoError(t, svc.Verify(ctx, in))

	err = svc.Verify(ctx, in)
	assert.ErrorIs(t, err, ErrAlreadyUsed, "second consumption of the same code")
}

func TestVerify_WrongCodeIsNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	code, err := svc.Generate(ctx, GenerateInput{SubjectID: "person:abc123", Purpose: PurposePasswordReset, Now: now})
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	err = svc.Verify(ctx, VerifyInput{SubjectID: "person:abc123", Code: wrong, Purpose: PurposePasswordReset, Now: now})
	assert.ErrorIs(t, err, ErrNotFound)

	// The real code still works afterwards.
	require.NoError(t, svc.Verify(ctx, VerifyInput{SubjectID: "person:abc123", Code: code, Purpose: PurposePasswordReset, Now: now}))
}

func TestVerify_PurposeMismatchIsNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	code, err := svc.Generate(ctx, GenerateInput{SubjectID: "person:abc123", Purpose: PurposeEmailVerification, Now: now})
	require.NoError(t, err)

	err = svc.Verify(ctx, VerifyInput{SubjectID: "person:abc123", Code: code, Purpose: PurposePasswordReset, Now: now})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerify_Expiry(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	cases := []struct {
		purpose Purpose
		ttl     time.Duration
	}{
		{PurposePasswordReset, time.Hour},
		{PurposeEmailVerification, 24 * time.Hour},
	}

	for _, tc := range cases {
		code, err := svc.Generate(ctx, GenerateInput{SubjectID: "person:abc123", Purpose: tc.purpose, Now: now})
		require.NoError(t, err)

		// Just inside the window: fine.
		err = svc.Verify(ctx, VerifyInput{
			SubjectID: "person:abc123", Code: code, Purpose: tc.purpose,
			Now: now.Add(tc.ttl - time.Second),
		})
		require.NoError(t, err, "purpose %s inside window", tc.purpose)

		// Regenerate and step past the window: Expired, and the row stays.
		code, err = svc.Generate(ctx, GenerateInput{SubjectID: "person:abc123", Purpose: tc.purpose, Now: now})
		require.NoError(t, err)

		err = svc.Verify(ctx, VerifyInput{
			SubjectID: "person:abc123", Code: code, Purpose: tc.purpose,
			Now: now.Add(tc.ttl + time.Second),
		})
		assert.ErrorIs(t, err, ErrExpired, "purpose %s past window", tc.purpose)

		// Lazy expiry: the row is still there, still Expired (not NotFound).
		err = svc.Verify(ctx, VerifyInput{
			SubjectID: "person:abc123", Code: code, Purpose: tc.purpose,
			Now: now.Add(tc.ttl + time.Minute),
		})
		assert.ErrorIs(t, err, ErrExpired)
	}
}

func TestGenerate_SupersedesPriorCode(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	first, err := svc.Generate(ctx, GenerateInput{SubjectID: "person:abc123", Purpose: PurposePasswordReset, Now: now})
	require.NoError(t, err)

	second, err := svc.Generate(ctx, GenerateInput{SubjectID: "person:abc123", Purpose: PurposePasswordReset, Now: now})
	require.NoError(t, err)

	assert.Equal(t, 1, store.ActiveCount("person:abc123", PurposePasswordReset, now), "single active code per subject+purpose")

	// The superseded code is gone entirely.
	if first != second {
		err = svc.Verify(ctx, VerifyInput{SubjectID: "person:abc123", Code: first, Purpose: PurposePasswordReset, Now: now})
		assert.ErrorIs(t, err, ErrNotFound)
	}

	require.NoError(t, svc.Verify(ctx, VerifyInput{SubjectID: "person:abc123", Code: second, Purpose: PurposePasswordReset, Now: now}))
}

func TestGenerate_DoesNotTouchOtherPurposes(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	emailCode, err := svc.Generate(ctx, GenerateInput{SubjectID: "person:abc123", Purpose: PurposeEmailVerification, Now: now})
	require.NoError(t, err)

	_, err = svc.Generate(ctx, GenerateInput{SubjectID: "person:abc123", Purpose: PurposePasswordReset, Now: now})
	require.NoError(t, err)

	// The email-verification code survives a password-reset generate.
	require.NoError(t, svc.Verify(ctx, VerifyInput{SubjectID: "person:abc123", Code: emailCode, Purpose: PurposeEmailVerification, Now: now}))
}

func TestCleanup_RemovesOnlyExpired(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := svc.Generate(ctx, GenerateInput{SubjectID: "person:a", Purpose: PurposePasswordReset, Now: now.Add(-2 * time.Hour)})
	require.NoError(t, err)
	fresh, err := svc.Generate(ctx, GenerateInput{SubjectID: "person:b", Purpose: PurposePasswordReset, Now: now})
	require.NoError(t, err)

	n, err := svc.Cleanup(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// The fresh code is untouched.
	require.NoError(t, svc.Verify(ctx, VerifyInput{SubjectID: "person:b", Code: fresh, Purpose: PurposePasswordReset, Now: now}))
}

func TestService_InvalidInput(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Generate(ctx, GenerateInput{SubjectID: "", Purpose: PurposePasswordReset})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Generate(ctx, GenerateInput{SubjectID: "person:a", Purpose: Purpose("bogus")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = svc.Verify(ctx, VerifyInput{SubjectID: "person:a", Code: "", Purpose: PurposePasswordReset})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
