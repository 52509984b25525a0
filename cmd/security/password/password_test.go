package password

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/crypto/argon2"
)

func TestHashAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	enc, err := Hash("correct-horse-battery")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	if !strings.HasPrefix(enc, "$argon2id$v=19$") {
		t.Fatalf("unexpected prefix: %q", enc)
	}
	if !strings.Contains(enc, "m=19456,t=2,p=1") {
		t.Fatalf("unexpected cost parameters: %q", enc)
	}

	ok, err := Verify("correct-horse-battery", enc)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected match")
	}

	ok, err = Verify("wrong", enc)
	if err != nil {
		t.Fatalf("Verify wrong password: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch for wrong password")
	}
}

func TestHash_DistinctSalts(t *testing.T) {
	t.Parallel()

	a, err := Hash("same-input")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := Hash("same-input")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Fatalf("two hashes of the same password must differ (distinct salts)")
	}

	for _, enc := range []string{a, b} {
		ok, err := Verify("same-input", enc)
		if err != nil || !ok {
			t.Fatalf("Verify(%q): ok=%v err=%v", enc, ok, err)
		}
	}
}

func TestVerify_EmbeddedParamsWin(t *testing.T) {
	t.Parallel()

	// Build a credential with smaller legacy cost parameters by hand; Verify
	// must honor the embedded values rather than the package constants.
	salt := []byte("0123456789abcdef")
	key := argon2.IDKey([]byte("legacy-pass"), salt, 1, 8*1024, 1, 32)

	b64 := base64.RawStdEncoding
	enc := fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		8*1024, 1, 1, b64.EncodeToString(salt), b64.EncodeToString(key))

	ok, err := Verify("legacy-pass", enc)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected legacy credential to verify with embedded params")
	}

	ok, err = Verify("not-the-pass", enc)
	if err != nil || ok {
		t.Fatalf("expected mismatch, got ok=%v err=%v", ok, err)
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"garbage", "not-a-hash"},
		{"wrong algorithm", "$argon2i$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"wrong version", "$argon2id$v=16$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing segment", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA"},
		{"bad params", "$argon2id$v=19$m=x,t=y,p=z$c2FsdA$aGFzaA"},
		{"zero params", "$argon2id$v=19$m=0,t=0,p=0$c2FsdA$aGFzaA"},
		{"bad base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA"},
		{"oversized memory", "$argon2id$v=19$m=1048576,t=2,p=1$c2FsdDAxMjM0NTY3$aGFzaGhhc2hoYXNoaGFzaA"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Verify("whatever", tc.encoded)
			if err == nil {
				t.Fatalf("expected ErrInvalidHash for %q", tc.encoded)
			}
		})
	}
}
