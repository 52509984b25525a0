package password

import "testing"

func BenchmarkHash(b *testing.B) {
	for b.Loop() {
		if _, err := Hash("benchmark-password-input"); err != nil {
			b.Fatalf("Hash: %v", err)
		}
	}
}

func BenchmarkVerify(b *testing.B) {
	enc, err := Hash("benchmark-password-input")
	if err != nil {
		b.Fatalf("Hash: %v", err)
	}

	b.ResetTimer()
	for b.Loop() {
		ok, err := Verify("benchmark-password-input", enc)
		if err != nil || !ok {
			b.Fatalf("Verify: ok=%v err=%v", ok, err)
		}
	}
}
