// similarity_test.go

package standardize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreAbbreviationSameLocation(t *testing.T) {
	assert.Equal(t, 1.0, Score("Federal Board, Islamabad", "FBISE, Islamabad"))
	assert.Equal(t, 1.0, Score("BISE, Sukkur", "Board of Intermediate Education Sukkur"))
}

func TestScoreAbbreviationDifferentLocation(t *testing.T) {
	// same board type in different cities is a different institution
	assert.Equal(t, 0.3, Score("Federal Board, Islamabad", "FBISE, Karachi"))
	assert.Equal(t, 0.3, Score("BISE Lahore", "BISE Multan"))
}

func TestScoreAbbreviationMissingLocation(t *testing.T) {
	assert.Equal(t, 0.95, Score("FBISE", "FBISE, Islamabad"))
	assert.Equal(t, 0.95, Score("Allama Iqbal Open University Islamabad", "AIOU"))
}

func TestScoreSentinels(t *testing.T) {
	assert.Zero(t, Score("Some School", "-"))
	assert.Zero(t, Score("Some School", "--"))
	assert.Zero(t, Score("Some School", "---"))
	assert.Zero(t, Score("Some School", ""))
	assert.Zero(t, Score("", "Some School"))
}

func TestScoreStrictEquality(t *testing.T) {
	assert.Equal(t, 1.0, Score("Quaid-e-Azam University", "QUAID E AZAM UNIVERSITY"))
	assert.Equal(t, 1.0, Score("Govt. College", "govtcollege"))
}

func TestScoreContainment(t *testing.T) {
	// "nationaluniversity" inside "nationaluniversityofsciences",
	// ratio 18/28 -> 0.85 + 0.643*0.15
	score := Score("National University", "National University of Sciences")
	assert.InDelta(t, 0.9464, score, 0.01)

	// a short fragment inside a long name must not score
	assert.Less(t, Score("Uni", "National University of Sciences"), 0.75)
}

func TestScoreWordOverlapOrderInvariant(t *testing.T) {
	// same content words in a different order
	score := Score("Government College Sahiwal", "Sahiwal Government College")
	assert.Equal(t, 1.0, score)
}

func TestScoreUnrelatedNamesStayLow(t *testing.T) {
	score := Score("City School Gulshan Campus", "Beaconhouse Margalla Branch")
	assert.Less(t, score, 0.75)
}

func TestIsSentinel(t *testing.T) {
	assert.True(t, IsSentinel("-"))
	assert.True(t, IsSentinel("---"))
	assert.True(t, IsSentinel(""))
	assert.False(t, IsSentinel("----"))
	assert.False(t, IsSentinel("IQRA"))
}
