package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Fixed Argon2id cost parameters. These must not change without a credential
// migration plan: stored hashes embed their own parameters, but new hashes
// must stay byte-compatible with the format the platform already uses.
const (
	argon2Version = 19 // argon2.Version is 0x13 (19)

	memoryKiB   uint32 = 19456
	iterations  uint32 = 2
	parallelism uint8  = 1
	saltLength  uint32 = 16
	keyLength   uint32 = 32
)

// hashParams carries the cost parameters decoded from an encoded credential.
type hashParams struct {
	memoryKiB   uint32
	iterations  uint32
	parallelism uint8
}

// Hash hashes a password with Argon2id and returns the encoded credential.
// A fresh random salt is drawn on every call, so two hashes of the same
// password differ. The only failure mode is the entropy source.
func Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, iterations, memoryKiB, parallelism, keyLength)

	b64 := base64.RawStdEncoding
	enc := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Version,
		memoryKiB,
		iterations,
		parallelism,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	)

	return enc, nil
}

// Verify reports whether password matches the encoded credential.
// The hash is recomputed with the parameters embedded in the credential, not
// the package constants, so credentials from older parameter sets still
// verify. Returns (false, nil) for a well-formed credential with the wrong
// password and ErrInvalidHash only for malformed input.
func Verify(password, encoded string) (bool, error) {
	params, salt, expected, err := decode(encoded)
	if err != nil {
		return false, err
	}

	if !withinReasonableBounds(params, len(salt), len(expected)) {
		return false, ErrInvalidHash
	}

	key := argon2.IDKey(
		[]byte(password),
		salt,
		params.iterations,
		params.memoryKiB,
		params.parallelism,
		uint32(len(expected)), // #nosec G115 -- bounded by decode() + withinReasonableBounds.
	)

	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}

// withinReasonableBounds rejects embedded parameters far above our own cost.
// Verifying cheaper legacy hashes is fine; wildly larger settings are not.
func withinReasonableBounds(got hashParams, saltLen, keyLen int) bool {
	if got.memoryKiB > memoryKiB*4 {
		return false
	}
	if got.iterations > iterations*8 {
		return false
	}
	if got.parallelism > parallelism*4 {
		return false
	}
	if saltLen < 8 || saltLen > 64 {
		return false
	}
	if keyLen < 16 || keyLen > 128 {
		return false
	}
	return true
}

// decode parses an encoded credential into params, salt and expected key.
func decode(encoded string) (hashParams, []byte, []byte, error) {
	// Expected: $argon2id$v=19$m=19456,t=2,p=1$<salt>$<hash>
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return hashParams{}, nil, nil, ErrInvalidHash
	}

	if parts[2] != fmt.Sprintf("v=%d", argon2Version) {
		return hashParams{}, nil, nil, ErrInvalidHash
	}

	if !strings.HasPrefix(parts[3], "m=") {
		return hashParams{}, nil, nil, ErrInvalidHash
	}
	var mem, it, par uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &it, &par); err != nil {
		return hashParams{}, nil, nil, ErrInvalidHash
	}
	if mem == 0 || it == 0 || par == 0 || par > 255 {
		return hashParams{}, nil, nil, ErrInvalidHash
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return hashParams{}, nil, nil, ErrInvalidHash
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil {
		return hashParams{}, nil, nil, ErrInvalidHash
	}

	params := hashParams{
		memoryKiB:   mem,
		iterations:  it,
		parallelism: uint8(par), // #nosec G115 -- par <= 255 checked above.
	}

	return params, salt, key, nil
}
