// Package textx holds small text helpers shared by extractors and scoring.
package textx

import (
	"strings"
)

// SanitizeText drops control characters other than tab, newline and CR, then
// trims surrounding whitespace. Extracted resume text goes through here
// before it is embedded in a prompt.
func SanitizeText(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(cleaned)
}

// WordCount counts whitespace-separated tokens.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Truncate cuts s to at most n bytes.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
