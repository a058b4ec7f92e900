package lead

import (
	"strings"
	"unicode"
)

func isInvisible(r rune) bool {
	return (r >= '\u200b' && r <= '\u200f') || (r >= '\u202a' && r <= '\u202e') || r == '\ufeff' || r == '\u2060'
}

// NormalizeName produces the per-project dedup key for a company name:
// invisible characters removed, lower-cased, whitespace trimmed and collapsed.
func NormalizeName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if isInvisible(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
	return strings.Join(strings.Fields(cleaned), " ")
}

// CleanDisplayName trims a display name and collapses its inner whitespace.
func CleanDisplayName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if isInvisible(r) {
			return -1
		}
		return r
	}, name)
	return strings.Join(strings.Fields(cleaned), " ")
}
