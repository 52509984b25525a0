// Package verification manages short-lived single-use numeric codes for
// out-of-band flows: email confirmation and password reset.
//
// A code is six decimal digits drawn uniformly from [100000, 999999], tied to
// a (subject, purpose) pair, and expires on a per-purpose schedule. At most
// one active code exists per (subject, purpose): generating a new one atomically
// removes the previous unused codes in the same transaction as the insert.
//
// Verification failures are distinguishable on purpose — NotFound, AlreadyUsed
// and Expired each get their own sentinel so callers can message users
// precisely. Expired rows are left in place (lazy expiry); a periodic sweep
// calls Cleanup to remove them.
package verification
