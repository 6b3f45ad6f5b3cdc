package utils

import "strings"

// NormalizeUsername trims, strips one leading "@" and lowercases a
// username. The users and revision sheets store usernames inconsistently
// (with and without the Telegram-style prefix, mixed case), so all
// matching goes through this form.
func NormalizeUsername(value string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(value), "@"))
}

// DisplayUsername returns the canonical "@name" form used in
// user-visible text such as calendar event descriptions.
func DisplayUsername(value string) string {
	normalized := NormalizeUsername(value)
	if normalized == "" {
		return "@usuario"
	}
	return "@" + normalized
}

// SameUsername reports whether two stored username cells refer to the
// same account regardless of case or "@" prefix.
func SameUsername(a, b string) bool {
	return NormalizeUsername(a) == NormalizeUsername(b)
}
