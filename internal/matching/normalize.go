// normalize.go - Person-name normalization for roster matching

package matching

import (
	"strings"
	"unicode"
)

// NormalizeName reduces a raw human name to its canonical comparable form:
// lowercase, trimmed, trailing dots/commas stripped, whitespace runs
// collapsed, and every character outside [a-z0-9 space hyphen] removed.
// Hyphens are kept so compound names like "abdul-rehman" stay intact.
// The function is total (empty in, empty out) and idempotent.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.TrimRight(s, ".,")

	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-':
			b.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r):
			if !prevSpace {
				b.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// nameWords splits a normalized name into its word set.
func nameWords(normalized string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(normalized) {
		words[w] = struct{}{}
	}
	return words
}
