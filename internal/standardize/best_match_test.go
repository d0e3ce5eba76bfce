// best_match_test.go

package standardize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindBestMatchExactShortCircuit(t *testing.T) {
	refs := []string{"IQRA UNIVERSITY", "bise, lahore", "FBISE, Islamabad"}

	match, score := FindBestMatch("BISE, Lahore", refs, DefaultThreshold)
	assert.Equal(t, "bise, lahore", match)
	assert.Equal(t, 1.0, score)
}

func TestFindBestMatchStrictEquality(t *testing.T) {
	refs := []string{"Quaid-e-Azam University"}

	match, score := FindBestMatch("QUAID E AZAM UNIVERSITY", refs, DefaultThreshold)
	assert.Equal(t, "Quaid-e-Azam University", match)
	assert.Equal(t, 1.0, score)
}

func TestFindBestMatchQueryTooShort(t *testing.T) {
	refs := []string{"AB College", "IQRA UNIVERSITY"}

	match, score := FindBestMatch("AB", refs, DefaultThreshold)
	assert.Empty(t, match)
	assert.Zero(t, score)
}

func TestFindBestMatchSkipsSentinelAndShortReferences(t *testing.T) {
	refs := []string{"-", "--", "---", "AB", "IQRA UNIVERSITY KARACHI"}

	match, score := FindBestMatch("Iqra University, Karachi", refs, DefaultThreshold)
	assert.Equal(t, "IQRA UNIVERSITY KARACHI", match)
	assert.Equal(t, 1.0, score)
}

func TestFindBestMatchNothingClearsThreshold(t *testing.T) {
	refs := []string{"Beaconhouse Margalla Branch", "City School Gulshan Campus"}

	match, score := FindBestMatch("Punjab College of Commerce", refs, DefaultThreshold)
	assert.Empty(t, match)
	assert.Zero(t, score)
}

func TestFindBestMatchPrefersShorterNearTie(t *testing.T) {
	// both references score 0.95 (shared abbreviation, one side without a
	// location); the substantially shorter canonical name wins
	refs := []string{
		"Asian Management Institute, Iqra University",
		"IQRA UNIVERSITY",
	}

	match, score := FindBestMatch("Iqra University Karachi", refs, DefaultThreshold)
	assert.Equal(t, "IQRA UNIVERSITY", match)
	assert.InDelta(t, 0.95, score, 1e-9)
}

func TestFindBestMatchShorterMustBeSubstantiallyShorter(t *testing.T) {
	// near-tie alone is not enough: a reference only slightly shorter than
	// the current best does not displace it
	refs := []string{
		"FBISE Islamabad Campus A",
		"FBISE Islamabad Campus",
	}

	match, _ := FindBestMatch("Federal Board Islamabad", refs, DefaultThreshold)
	assert.Equal(t, "FBISE Islamabad Campus A", match)
}
