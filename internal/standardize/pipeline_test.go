// pipeline_test.go

package standardize

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eduparser/edu_parser_gemini/internal/records"
)

func eduWithSchools(schools ...string) []records.EducationRecord {
	recs := make([]records.EducationRecord, len(schools))
	for i, s := range schools {
		recs[i] = records.EducationRecord{Name: fmt.Sprintf("person %d", i), School: s}
	}
	return recs
}

func TestStandardizeRecords(t *testing.T) {
	refs := []string{"FBISE, Islamabad", "IQRA UNIVERSITY", "BISE, Lahore"}
	std := New(refs, 0)

	recs := eduWithSchools(
		"Federal Board, Islamabad", // rewritten via abbreviation override
		"IQRA UNIVERSITY",          // already canonical, not counted as updated
		"Hogwarts",                 // no match
		"",                         // skipped entirely
	)

	out, stats := std.StandardizeRecords(recs)

	assert.Equal(t, "FBISE, Islamabad", out[0].School)
	assert.Equal(t, "IQRA UNIVERSITY", out[1].School)
	assert.Equal(t, "Hogwarts", out[2].School)

	assert.Equal(t, 3, stats.TotalSchools)
	assert.Equal(t, 1, stats.UpdatedCount)
	assert.Equal(t, 1, stats.NotFoundCount)
	assert.Equal(t, []string{"Hogwarts"}, stats.NotFoundList)

	assert.Len(t, stats.MatchDetails, 1)
	assert.Equal(t, "Federal Board, Islamabad", stats.MatchDetails[0].Original)
	assert.Equal(t, "FBISE, Islamabad", stats.MatchDetails[0].MatchedTo)

	// input untouched
	assert.Equal(t, "Federal Board, Islamabad", recs[0].School)
}

func TestStandardizeRecordsCachesDistinctValues(t *testing.T) {
	refs := []string{"FBISE, Islamabad", "IQRA UNIVERSITY", "BISE, Lahore"}
	std := New(refs, 0)

	distinct := []string{
		"Federal Board, Islamabad",
		"Iqra University",
		"bise lahore",
		"Hogwarts",
		"Narnia Academy",
	}
	var schools []string
	for i := 0; i < 100; i++ {
		schools = append(schools, distinct...)
	}

	_, stats := std.StandardizeRecords(eduWithSchools(schools...))

	assert.Equal(t, 500, stats.TotalSchools)
	assert.Equal(t, 5, std.lookups, "each distinct value must be scored exactly once")

	// not-found values are reported once, not per row
	assert.Equal(t, 2, stats.NotFoundCount)
}

func TestStandardizeCacheSharedAcrossRuns(t *testing.T) {
	std := New([]string{"IQRA UNIVERSITY"}, 0)

	std.StandardizeRecords(eduWithSchools("Iqra University"))
	std.StandardizeRecords(eduWithSchools("Iqra University", "Iqra University"))

	assert.Equal(t, 1, std.lookups)
}

func TestNewDeduplicatesReferences(t *testing.T) {
	std := New([]string{"IQRA UNIVERSITY", "IQRA UNIVERSITY", "", "BISE, Lahore"}, 0)
	assert.Equal(t, []string{"IQRA UNIVERSITY", "BISE, Lahore"}, std.references)
}

func TestLookupEmptyValue(t *testing.T) {
	std := New([]string{"IQRA UNIVERSITY"}, 0)
	match, score := std.Lookup("   ")
	assert.Empty(t, match)
	assert.Zero(t, score)
	assert.Zero(t, std.lookups)
}
