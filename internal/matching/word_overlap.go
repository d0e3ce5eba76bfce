// word_overlap.go - Tier 2 fuzzy matching by word-set overlap

package matching

import "github.com/eduparser/edu_parser_gemini/internal/records"

// Flat bonus applied when every query word is found in the candidate. A fully
// contained shorter name ("raheel khan" inside "raheel khan jadoon") then
// scores above 1.0 and always clears the acceptance threshold.
const fullContainmentBonus = 0.5

// bestWordOverlapMatch scores every employee in the deduplicated pool against
// a normalized education name and returns the best candidate with its score.
// Both names need at least two words and at least two words in common to be
// considered at all. Score is |common| / |query words|. Ties keep the first
// candidate seen (pool iteration order).
func bestWordOverlapMatch(normalizedName string, pool *employeePool) (*records.EmployeeRecord, float64) {
	queryWords := nameWords(normalizedName)
	if len(queryWords) < 2 {
		return nil, 0
	}

	var best *records.EmployeeRecord
	bestScore := 0.0

	for _, entry := range pool.entries {
		if len(entry.words) < 2 {
			continue
		}

		common := 0
		for w := range queryWords {
			if _, ok := entry.words[w]; ok {
				common++
			}
		}
		if common < 2 {
			continue
		}

		score := float64(common) / float64(len(queryWords))
		if common == len(queryWords) {
			score += fullContainmentBonus
		}

		if score > bestScore {
			bestScore = score
			best = entry.record
		}
	}

	return best, bestScore
}
