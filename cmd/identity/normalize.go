package identity

import "strings"

// NormalizeUsername canonicalizes a username for case-insensitive lookup.
// Trim + lower-case only for now; unicode confusable handling would go behind
// a versioned policy if it is ever added.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeEmail canonicalizes an email address for case-insensitive lookup.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
