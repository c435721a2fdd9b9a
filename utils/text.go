package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var unsafeFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// NormalizeSpaces trims s and collapses runs of whitespace to a single space.
func NormalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SanitizeFileName replaces anything outside [a-zA-Z0-9._-] with an underscore.
// An empty name becomes "document".
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "document"
	}
	return unsafeFileNameChars.ReplaceAllString(name, "_")
}

// CountNonSpace reports how many non-whitespace runes s holds.
func CountNonSpace(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
