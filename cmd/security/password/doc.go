// Package password provides password hashing and verification for Callboard.
//
// It implements Argon2id with a PHC-style encoded string format:
//
//	$argon2id$v=19$m=19456,t=2,p=1$<salt_b64>$<hash_b64>
//
// The cost parameters are fixed constants so that every credential produced by
// this package is byte-compatible with the stored credentials of the platform
// it replaces. Verification always recomputes with the parameters embedded in
// the credential, never with the current defaults, so older credentials keep
// verifying after a parameter bump.
//
// Security notes:
//   - Encoded hashes are treated as untrusted input during Verify and are
//     validated accordingly.
//   - Verify refuses hashes whose embedded parameters exceed sane bounds, so
//     an attacker-supplied credential string cannot force pathological
//     resource usage.
package password
