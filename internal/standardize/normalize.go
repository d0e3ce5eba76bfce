// normalize.go - Two-strength normalization for institution names

package standardize

import (
	"strings"
	"unicode"
)

// NormalizeLoose lowercases, trims, and collapses internal whitespace runs.
// Punctuation is preserved.
func NormalizeLoose(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !prevSpace {
				b.WriteRune(' ')
				prevSpace = true
			}
			continue
		}
		b.WriteRune(r)
		prevSpace = false
	}
	return strings.TrimSpace(b.String())
}

// NormalizeStrict lowercases and strips everything that is not a lowercase
// letter or digit. "BISE, Sukkur" and "bise,sukkur" both become "bisesukkur",
// which is the form used for "essentially the same token sequence" checks.
func NormalizeStrict(name string) string {
	s := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// contentWords extracts the meaningful word set from a raw institution name:
// punctuation replaced by spaces, lowercased, stop words removed. Unlike the
// person-name matcher this strips hyphens too.
func contentWords(name string) map[string]struct{} {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	words := make(map[string]struct{})
	for _, w := range strings.Fields(b.String()) {
		if _, stop := stopWords[w]; !stop {
			words[w] = struct{}{}
		}
	}
	return words
}

// Articles and conjunctions carry no matching signal.
var stopWords = map[string]struct{}{
	"of": {}, "the": {}, "and": {}, "for": {}, "in": {}, "at": {}, "a": {}, "an": {},
}
