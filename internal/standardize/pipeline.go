// pipeline.go - Dataset-wide school name standardization with caching

package standardize

import (
	"strings"

	"github.com/eduparser/edu_parser_gemini/internal/records"
)

// MatchDetail records one distinct raw value that was rewritten.
type MatchDetail struct {
	Original  string  `json:"original"`
	MatchedTo string  `json:"matched_to"`
	Score     float64 `json:"score"`
}

// Stats summarizes one standardization pass.
type Stats struct {
	TotalSchools  int           `json:"total_schools"`
	UpdatedCount  int           `json:"updated_count"`
	NotFoundCount int           `json:"not_found_count"`
	NotFoundList  []string      `json:"not_found_list"`
	MatchDetails  []MatchDetail `json:"match_details"`
}

type cachedMatch struct {
	match string
	score float64
}

// Standardizer rewrites school names to their canonical reference spelling.
// Lookups are cached per distinct raw value, so a school appearing on 500
// rows is scored against the vocabulary once.
type Standardizer struct {
	references []string
	threshold  float64
	cache      map[string]cachedMatch

	// distinct values actually scored; used to verify cache behavior
	lookups int
}

// New builds a Standardizer over the reference vocabulary. Order and case are
// preserved; exact duplicates are dropped.
func New(references []string, threshold float64) *Standardizer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	seen := make(map[string]bool, len(references))
	deduped := make([]string, 0, len(references))
	for _, ref := range references {
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		deduped = append(deduped, ref)
	}
	return &Standardizer{
		references: deduped,
		threshold:  threshold,
		cache:      make(map[string]cachedMatch),
	}
}

// Lookup resolves one raw school name through the cache.
func (s *Standardizer) Lookup(raw string) (string, float64) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", 0
	}
	if hit, ok := s.cache[raw]; ok {
		return hit.match, hit.score
	}
	match, score := FindBestMatch(raw, s.references, s.threshold)
	s.cache[raw] = cachedMatch{match: match, score: score}
	s.lookups++
	return match, score
}

// StandardizeRecords rewrites the School field of every record to its matched
// canonical form. A value is only counted as updated when a match was found
// and actually differs from the original; unmatched values are left as-is and
// reported for manual review. The input slice is not mutated.
func (s *Standardizer) StandardizeRecords(recs []records.EducationRecord) ([]records.EducationRecord, Stats) {
	out := make([]records.EducationRecord, len(recs))
	copy(out, recs)

	stats := Stats{}
	seenNotFound := make(map[string]bool)
	seenDetail := make(map[string]bool)

	for i := range out {
		raw := strings.TrimSpace(out[i].School)
		if raw == "" {
			continue
		}
		stats.TotalSchools++

		match, score := s.Lookup(raw)
		if match == "" {
			if !seenNotFound[raw] {
				seenNotFound[raw] = true
				stats.NotFoundList = append(stats.NotFoundList, raw)
			}
			continue
		}
		if match != raw {
			out[i].School = match
			stats.UpdatedCount++
			if !seenDetail[raw] {
				seenDetail[raw] = true
				stats.MatchDetails = append(stats.MatchDetails, MatchDetail{
					Original:  raw,
					MatchedTo: match,
					Score:     score,
				})
			}
		}
	}

	stats.NotFoundCount = len(stats.NotFoundList)
	return out, stats
}
