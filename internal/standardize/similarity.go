// similarity.go - Ensemble similarity scoring for institution names
//
// Institution names vary by abbreviation, word order, and inserted or
// omitted qualifiers ("BISE, Sukkur" vs "BISE,Sukkur" vs "Federal Board,
// Islamabad" vs "FBISE,ISLAMABAD"). No single string metric handles every
// variation class, so the scorer combines five signals and takes the best,
// with an abbreviation/location override evaluated first.

package standardize

import "strings"

// Reference entries that mean "no data" and must never match anything.
var sentinels = map[string]struct{}{
	"-": {}, "--": {}, "---": {}, "": {},
}

// IsSentinel reports whether a reference entry is a placeholder.
func IsSentinel(s string) bool {
	_, ok := sentinels[s]
	return ok
}

// Known abbreviations for Pakistani education boards and institutions.
// Each key maps to the literal substrings that indicate it.
var abbreviationMap = map[string][]string{
	"fbise":   {"federal board", "federal", "fbise"},
	"bise":    {"bise", "board of intermediate"},
	"aiou":    {"allama iqbal open university", "aiou", "a.i.o.u"},
	"szabist": {"szabist", "shaheed zulfikar ali bhutto"},
	"pbte":    {"punjab board of technical education", "pbte"},
	"iqra":    {"iqra", "aqra"}, // common misspelling
}

// City and province names used to disambiguate board branches.
var locations = []string{
	"islamabad", "lahore", "karachi", "multan", "faisalabad",
	"gujranwala", "sargodha", "hyderabad", "quetta", "peshawar",
	"rawalpindi", "sukkur", "mirpurkhas", "jamshoro", "balochistan",
	"sindh", "punjab",
}

// abbreviationKeys returns every abbreviation key whose indicator substrings
// appear in the name.
func abbreviationKeys(name string) map[string]struct{} {
	lower := strings.ToLower(name)
	keys := make(map[string]struct{})
	for key, patterns := range abbreviationMap {
		for _, p := range patterns {
			if strings.Contains(lower, p) {
				keys[key] = struct{}{}
				break
			}
		}
	}
	return keys
}

// locationSet returns the known locations mentioned in the name.
func locationSet(name string) map[string]struct{} {
	lower := strings.ToLower(name)
	locs := make(map[string]struct{})
	for _, loc := range locations {
		if strings.Contains(lower, loc) {
			locs[loc] = struct{}{}
		}
	}
	return locs
}

func setsEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	return allIn(a, b)
}

func allIn(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func intersects(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

// Score computes the composite similarity between an extracted institution
// name and a reference entry, in [0,1].
func Score(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if IsSentinel(b) {
		return 0
	}

	// Abbreviation/location override: same institution type is decided by a
	// shared abbreviation key, then the branch location decides the score.
	abbrevA := abbreviationKeys(a)
	abbrevB := abbreviationKeys(b)
	if intersects(abbrevA, abbrevB) {
		locA := locationSet(a)
		locB := locationSet(b)
		switch {
		case len(locA) > 0 && len(locB) > 0 && setsEqual(locA, locB):
			return 1.0 // same institution type, same place
		case len(locA) == 0 || len(locB) == 0:
			return 0.95 // location unspecified on one side, likely the same
		default:
			return 0.3 // same type, different branch - must not be conflated
		}
	}

	// Signal 1: raw case-folded sequence similarity.
	best := sequenceRatio(strings.ToLower(a), strings.ToLower(b))

	strictA := NormalizeStrict(a)
	strictB := NormalizeStrict(b)
	if strictA == "" || strictB == "" {
		return best
	}

	// Signal 3: strict-normalized equality short-circuits.
	if strictA == strictB {
		return 1.0
	}

	// Signal 2: sequence similarity on strict-normalized forms.
	if r := sequenceRatio(strictA, strictB); r > best {
		best = r
	}

	// Signal 4: containment. A substantial substring (>= 60% of the longer
	// string, both at least 4 chars) scores 0.85-1.0; short fragments inside
	// long strings are rejected.
	if r := containmentScore(strictA, strictB); r > best {
		best = r
	}

	// Signal 5: word-set overlap, excluding stop words.
	if r := wordOverlapScore(a, b); r > best {
		best = r
	}

	return best
}

func containmentScore(strictA, strictB string) float64 {
	if len(strictA) < 4 || len(strictB) < 4 {
		return 0
	}
	shorter, longer := strictA, strictB
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if !strings.Contains(longer, shorter) {
		return 0
	}
	ratio := float64(len(shorter)) / float64(len(longer))
	if ratio < 0.6 {
		return 0
	}
	return 0.85 + ratio*0.15
}

func wordOverlapScore(a, b string) float64 {
	wordsA := contentWords(a)
	wordsB := contentWords(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	common := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			common++
		}
	}
	if common == 0 {
		return 0
	}
	if common < 2 && common != len(wordsA) && common != len(wordsB) {
		return 0
	}

	maxLen := len(wordsA)
	if len(wordsB) > maxLen {
		maxLen = len(wordsB)
	}
	return 0.7 + (float64(common)/float64(maxLen))*0.3
}
