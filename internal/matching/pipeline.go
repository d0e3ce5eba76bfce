// pipeline.go - Three-tier merge of education records with the employee roster

package matching

import (
	"context"

	"github.com/eduparser/edu_parser_gemini/internal/common"
	"github.com/eduparser/edu_parser_gemini/internal/records"
)

// Options tunes the merge pipeline. Zero values fall back to the defaults
// the thresholds were tuned with.
type Options struct {
	FuzzyThreshold float64 // Minimum word-overlap score to accept a tier-2 match (default 0.8)
	AIBatchSize    int     // Names per AI matching request (default 20)
	AIBatchDelayMS int     // Pause between AI batches (default 500)
}

func (o Options) withDefaults() Options {
	if o.FuzzyThreshold <= 0 {
		o.FuzzyThreshold = 0.8
	}
	if o.AIBatchSize <= 0 {
		o.AIBatchSize = 20
	}
	if o.AIBatchDelayMS < 0 {
		o.AIBatchDelayMS = 500
	}
	return o
}

// Stats is the per-tier funnel for one merge run. Every input record is
// accounted for: Total == ExactMatched + FuzzyMatched + AIMatched + Unmatched.
type Stats struct {
	Total          int      `json:"total"`
	ExactMatched   int      `json:"exact_matched"`
	FuzzyMatched   int      `json:"fuzzy_matched"`
	AIMatched      int      `json:"ai_matched"`
	Unmatched      int      `json:"unmatched"`
	AISkipped      bool     `json:"ai_skipped"`
	UnmatchedNames []string `json:"unmatched_names"`
}

// poolEntry caches the normalized form and word set of one employee.
type poolEntry struct {
	record     *records.EmployeeRecord
	normalized string
	words      map[string]struct{}
}

// employeePool is the roster deduplicated by normalized name, keep-first.
// If two employees normalize to the same name only the first row is ever
// reachable as a match target; this mirrors the source roster policy.
type employeePool struct {
	entries []poolEntry
	byNorm  map[string]*records.EmployeeRecord
}

func newEmployeePool(employees []records.EmployeeRecord) *employeePool {
	pool := &employeePool{byNorm: make(map[string]*records.EmployeeRecord, len(employees))}
	for i := range employees {
		norm := NormalizeName(employees[i].FullName)
		if _, dup := pool.byNorm[norm]; dup {
			continue
		}
		pool.byNorm[norm] = &employees[i]
		pool.entries = append(pool.entries, poolEntry{
			record:     &employees[i],
			normalized: norm,
			words:      nameWords(norm),
		})
	}
	return pool
}

// fullNames returns the original-cased roster names in pool order, for the
// AI matcher's candidate list.
func (p *employeePool) fullNames() []string {
	names := make([]string, len(p.entries))
	for i, e := range p.entries {
		names[i] = e.record.FullName
	}
	return names
}

// Merge runs the three matching tiers in sequence over the education records.
// Tier 1 joins on normalized-name equality, tier 2 applies word-overlap fuzzy
// matching to the remainder, tier 3 hands the residue to the AI matcher in
// batches. Records matched by an earlier tier are never revisited. The input
// slice is not mutated; the enriched copy is returned together with the
// funnel stats.
//
// matcher may be nil, in which case tier 3 is skipped and reported as such.
// Tier 3 failures are non-fatal: a failed batch leaves its names unmatched.
func Merge(ctx context.Context, eduRecs []records.EducationRecord, employees []records.EmployeeRecord,
	matcher NameMatcher, opts Options, reqCtx *common.RequestContext) ([]records.EducationRecord, Stats) {

	opts = opts.withDefaults()
	pool := newEmployeePool(employees)

	merged := make([]records.EducationRecord, len(eduRecs))
	copy(merged, eduRecs)

	stats := Stats{Total: len(merged)}

	// Tier 1: exact join on normalized names.
	for i := range merged {
		if merged[i].Matched() {
			continue
		}
		norm := NormalizeName(merged[i].Name)
		if norm == "" {
			continue
		}
		if emp, ok := pool.byNorm[norm]; ok {
			if merged[i].BindEmployee(*emp, records.TierExact) {
				stats.ExactMatched++
			}
		}
	}

	// Tier 2: word-overlap fuzzy matching on the remainder.
	for i := range merged {
		if merged[i].Matched() {
			continue
		}
		emp, score := bestWordOverlapMatch(NormalizeName(merged[i].Name), pool)
		if emp != nil && score >= opts.FuzzyThreshold {
			if merged[i].BindEmployee(*emp, records.TierFuzzy) {
				stats.FuzzyMatched++
			}
		}
	}

	// Tier 3: AI-assisted matching of the residue.
	if matcher == nil {
		stats.AISkipped = true
	} else {
		unresolved := unmatchedNames(merged)
		if len(unresolved) > 0 {
			resolved := resolveWithAI(ctx, matcher, unresolved, pool, opts, reqCtx)
			stats.AIMatched = applyAIMatches(merged, resolved, pool)
		}
	}

	for i := range merged {
		if !merged[i].Matched() {
			stats.Unmatched++
			stats.UnmatchedNames = appendUnique(stats.UnmatchedNames, merged[i].Name)
		}
	}

	return merged, stats
}

// unmatchedNames collects the distinct original name strings of records no
// tier has claimed yet, preserving first-seen order.
func unmatchedNames(recs []records.EducationRecord) []string {
	var names []string
	seen := make(map[string]bool)
	for i := range recs {
		if recs[i].Matched() || recs[i].Name == "" || seen[recs[i].Name] {
			continue
		}
		seen[recs[i].Name] = true
		names = append(names, recs[i].Name)
	}
	return names
}

// applyAIMatches binds AI-resolved names back onto the records. The returned
// employee name is re-normalized and looked up in the deduplicated pool; an
// unknown name from the matcher is discarded. Every still-unmatched record
// sharing the exact original education name string is bound.
func applyAIMatches(recs []records.EducationRecord, matches map[string]string, pool *employeePool) int {
	bound := 0
	for eduName, empName := range matches {
		norm := NormalizeName(empName)
		if norm == "" {
			// punctuation-only output must not hit a blank-named roster row
			continue
		}
		emp, ok := pool.byNorm[norm]
		if !ok {
			continue
		}
		for i := range recs {
			if recs[i].Name == eduName && !recs[i].Matched() {
				if recs[i].BindEmployee(*emp, records.TierAI) {
					bound++
				}
			}
		}
	}
	return bound
}

func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
