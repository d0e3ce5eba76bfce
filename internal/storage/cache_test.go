// cache_test.go

package storage

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eduparser/edu_parser_gemini/internal/records"
)

func TestResultAccumulator(t *testing.T) {
	acc := NewResultAccumulator()
	assert.Empty(t, acc.EducationSnapshot())

	acc.AddEducation([]records.EducationRecord{{Name: "A"}, {Name: "B"}})
	acc.AddEducation([]records.EducationRecord{{Name: "C"}})
	acc.AddExperience([]records.ExperienceRecord{{Name: "A", Employer: "ACME"}})

	edu := acc.EducationSnapshot()
	assert.Len(t, edu, 3)
	assert.Equal(t, "A", edu[0].Name)
	assert.Len(t, acc.ExperienceSnapshot(), 1)

	// snapshots are copies
	edu[0].Name = "mutated"
	assert.Equal(t, "A", acc.EducationSnapshot()[0].Name)

	acc.Clear()
	assert.Empty(t, acc.EducationSnapshot())
	assert.Empty(t, acc.ExperienceSnapshot())
}

func TestResultAccumulatorConcurrentAdds(t *testing.T) {
	acc := NewResultAccumulator()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acc.AddEducation([]records.EducationRecord{{Name: "x"}})
		}()
	}
	wg.Wait()

	assert.Len(t, acc.EducationSnapshot(), 20)
}
