package util

import "strings"

// NormalizeKey lowercases and trims a string for use as a consistent lookup key.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeZoneName lowercases a zone name and strips whitespace and any
// trailing dot, so user input matches configured zone names.
func NormalizeZoneName(name string) string {
	return strings.TrimSuffix(NormalizeKey(name), ".")
}
