package strings

import stdstrings "strings"

// NormalizeName folds a user-facing name for uniqueness comparison:
// trimmed and lowercased. Uniqueness invariants compare normalized
// forms so "Main" and "main" collide.
func NormalizeName(s string) string {
	return stdstrings.ToLower(stdstrings.TrimSpace(s))
}
