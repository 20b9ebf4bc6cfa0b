package helpers

import "strings"

// CollapseWhitespace trims a string and collapses internal whitespace runs
// into single spaces. Rendered markup is full of layout-driven whitespace
// that must not leak into record fields.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens a string to at most n runes
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
