// ratio.go - Sequence similarity ratio (2*M/T over matching blocks)

package standardize

// sequenceRatio returns 2*M/T where M is the total length of the matching
// blocks between a and b and T is the combined length. Matching blocks are
// found by repeatedly taking the longest common substring and recursing on
// the pieces to its left and right, so transposed words still earn partial
// credit.
func sequenceRatio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	m := matchingBlockTotal(a, b)
	return 2.0 * float64(m) / float64(len(a)+len(b))
}

func matchingBlockTotal(a, b string) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingBlockTotal(a[:ai], b[:bi])
	total += matchingBlockTotal(a[ai+size:], b[bi+size:])
	return total
}

// longestCommonSubstring returns the start offsets and length of the longest
// run of bytes common to a and b. Earliest occurrence wins on ties.
func longestCommonSubstring(a, b string) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	// lengths[j] = length of common suffix ending at a[i], b[j-1] from the
	// previous row; single-row DP keeps memory at O(len(b)).
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 0; i < len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > size {
					size = curr[j]
					ai = i - size + 1
					bi = j - size
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return ai, bi, size
}
