// best_match.go - Best-scoring reference entry selection under a threshold

package standardize

import (
	"math"
	"strings"
)

// DefaultThreshold is the minimum similarity score to accept a match.
const DefaultThreshold = 0.75

// FindBestMatch scans the reference vocabulary for the entry most similar to
// the query and returns it with its score, or ("", 0) when nothing clears the
// threshold. Queries whose strict form is shorter than 3 characters are too
// ambiguous to match at all.
//
// When several references score within 0.05 of each other the selector leans
// toward the shortest plausible canonical name (prefer "IQRA UNIVERSITY" over
// "Asian Management Institute, Iqra University"). The nested update condition
// is tuned against production data; do not simplify it - the exact arithmetic
// decides which reference wins ties.
func FindBestMatch(query string, references []string, threshold float64) (string, float64) {
	query = strings.TrimSpace(query)
	queryStrict := NormalizeStrict(query)
	queryLoose := NormalizeLoose(query)

	if len(queryStrict) < 3 {
		return "", 0
	}

	bestMatch := ""
	bestScore := 0.0
	bestLen := math.Inf(1)

	for _, ref := range references {
		if IsSentinel(ref) {
			continue
		}
		refStrict := NormalizeStrict(ref)
		if len(refStrict) < 3 {
			continue
		}

		// Exact match after either normalization wins immediately.
		if queryStrict == refStrict || queryLoose == NormalizeLoose(ref) {
			return ref, 1.0
		}

		score := Score(query, ref)

		refLen := float64(len(ref))
		if score > bestScore || (score >= bestScore-0.05 && refLen < bestLen) {
			if score > bestScore || (score >= threshold && refLen < bestLen*0.7) {
				bestScore = score
				bestMatch = ref
				bestLen = refLen
			}
		}
	}

	if bestScore >= threshold {
		return bestMatch, bestScore
	}
	return "", 0
}
