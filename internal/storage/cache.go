// cache.go - TTL cache for master data and the session result accumulator

package storage

import (
	"context"
	"sync"
	"time"

	"github.com/eduparser/edu_parser_gemini/internal/records"
)

// MasterDataCache stores the roster and reference school list loaded from
// MongoDB so repeated merge/standardize runs don't re-query.
type MasterDataCache struct {
	Employees        []records.EmployeeRecord
	ReferenceSchools []string
	LoadedAt         time.Time
}

var (
	masterCache *MasterDataCache
	cacheMutex  sync.RWMutex
)

const cacheTTL = 5 * time.Minute

// GetOrLoadMasterData retrieves master data from cache or loads it from MongoDB.
func GetOrLoadMasterData(ctx context.Context) (*MasterDataCache, error) {
	cacheMutex.RLock()
	cache := masterCache
	cacheMutex.RUnlock()

	if cache != nil && time.Since(cache.LoadedAt) < cacheTTL {
		return cache, nil
	}

	cacheMutex.Lock()
	defer cacheMutex.Unlock()

	// Double-check after acquiring the write lock
	if masterCache != nil && time.Since(masterCache.LoadedAt) < cacheTTL {
		return masterCache, nil
	}

	employees, err := GetEmployeeRoster(ctx)
	if err != nil {
		return nil, err
	}
	schools, err := GetReferenceSchools(ctx)
	if err != nil {
		return nil, err
	}

	masterCache = &MasterDataCache{
		Employees:        employees,
		ReferenceSchools: schools,
		LoadedAt:         time.Now(),
	}
	return masterCache, nil
}

// InvalidateMasterData drops the cached master data.
func InvalidateMasterData() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	masterCache = nil
}

// ResultAccumulator collects extraction results across repeated requests in
// one session so they can be merged and exported together. It is owned by
// whoever constructs it and passed down explicitly.
type ResultAccumulator struct {
	mu         sync.Mutex
	education  []records.EducationRecord
	experience []records.ExperienceRecord
}

// NewResultAccumulator creates an empty accumulator.
func NewResultAccumulator() *ResultAccumulator {
	return &ResultAccumulator{}
}

// AddEducation appends extracted education records.
func (a *ResultAccumulator) AddEducation(recs []records.EducationRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.education = append(a.education, recs...)
}

// AddExperience appends extracted experience records.
func (a *ResultAccumulator) AddExperience(recs []records.ExperienceRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.experience = append(a.experience, recs...)
}

// EducationSnapshot returns a copy of the accumulated education records.
func (a *ResultAccumulator) EducationSnapshot() []records.EducationRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]records.EducationRecord, len(a.education))
	copy(out, a.education)
	return out
}

// ExperienceSnapshot returns a copy of the accumulated experience records.
func (a *ResultAccumulator) ExperienceSnapshot() []records.ExperienceRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]records.ExperienceRecord, len(a.experience))
	copy(out, a.experience)
	return out
}

// Clear discards everything accumulated so far.
func (a *ResultAccumulator) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.education = nil
	a.experience = nil
}
