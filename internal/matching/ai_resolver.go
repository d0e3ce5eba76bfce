// ai_resolver.go - Tier 3: delegate residual unresolved names to an external
// AI name-matching service in bounded batches.

package matching

import (
	"context"
	"time"

	"github.com/eduparser/edu_parser_gemini/internal/common"
)

// NameMatcher is the narrow contract for the external name-matching
// collaborator. Given a batch of query names and the full candidate list it
// returns a mapping from each query to its best candidate, with "" meaning
// no good match. Implementations must treat an unparseable response as an
// error; the resolver degrades a failed batch to all-null.
type NameMatcher interface {
	MatchNames(ctx context.Context, queries []string, candidates []string, reqCtx *common.RequestContext) (map[string]string, error)
}

// resolveWithAI partitions the unresolved names into batches and queries the
// matcher batch by batch, pausing between batches to respect the provider's
// rate limit. A batch that errors contributes no matches but never aborts
// the run.
func resolveWithAI(ctx context.Context, matcher NameMatcher, unresolved []string,
	pool *employeePool, opts Options, reqCtx *common.RequestContext) map[string]string {

	candidates := pool.fullNames()
	resolved := make(map[string]string)
	delay := time.Duration(opts.AIBatchDelayMS) * time.Millisecond

	for start := 0; start < len(unresolved); start += opts.AIBatchSize {
		end := start + opts.AIBatchSize
		if end > len(unresolved) {
			end = len(unresolved)
		}
		batch := unresolved[start:end]

		matches, err := matcher.MatchNames(ctx, batch, candidates, reqCtx)
		if err != nil {
			if reqCtx != nil {
				reqCtx.LogWarning("AI matching batch %d-%d failed, names stay unmatched: %v", start, end, err)
			}
		} else {
			for query, candidate := range matches {
				resolved[query] = candidate
			}
		}

		// The pause applies after every batch, failed ones included; a
		// rate-limited batch followed by an immediate request would just
		// trip the limit again.
		if end < len(unresolved) && delay > 0 {
			select {
			case <-ctx.Done():
				if reqCtx != nil {
					reqCtx.LogWarning("AI matching interrupted: %v", ctx.Err())
				}
				return resolved
			case <-time.After(delay):
			}
		}
	}

	return resolved
}
