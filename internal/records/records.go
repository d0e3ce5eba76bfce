// records.go - Typed records for the employee roster and extracted education data

package records

// MatchTier identifies which stage of the merge pipeline resolved a record.
type MatchTier int

const (
	TierNone MatchTier = iota
	TierExact
	TierFuzzy
	TierAI
)

func (t MatchTier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierFuzzy:
		return "fuzzy"
	case TierAI:
		return "ai"
	default:
		return "unmatched"
	}
}

// EmployeeRecord is one row of the authoritative employee roster.
type EmployeeRecord struct {
	CNIC           string `json:"cnic"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
}

// EducationRecord is one extracted education entry. Match fields start empty
// and are populated exactly once by whichever merge tier first claims the
// record.
type EducationRecord struct {
	Name            string `json:"name"`
	FatherName      string `json:"father_name,omitempty"`
	CountryCode     string `json:"country_code,omitempty"`
	DegreeStartDate string `json:"degree_start_date,omitempty"`
	DegreeEndDate   string `json:"degree_end_date,omitempty"`
	AverageGrade    string `json:"average_grade,omitempty"`
	EducationLevel  string `json:"education_level,omitempty"`
	DegreeName      string `json:"degree_name,omitempty"`
	Graduated       string `json:"graduated,omitempty"`
	Major           string `json:"major,omitempty"`
	School          string `json:"school,omitempty"`

	MatchedCNIC           string    `json:"matched_cnic,omitempty"`
	MatchedEmployeeNumber string    `json:"matched_employee_number,omitempty"`
	MatchedFullName       string    `json:"matched_full_name,omitempty"`
	MatchTier             MatchTier `json:"match_tier"`
}

// Matched reports whether any tier has already claimed this record.
func (r *EducationRecord) Matched() bool {
	return r.MatchedCNIC != ""
}

// BindEmployee attaches an employee to a still-unmatched record. Later tiers
// must never overwrite an earlier match, so binding a matched record is a
// no-op.
func (r *EducationRecord) BindEmployee(emp EmployeeRecord, tier MatchTier) bool {
	if r.Matched() {
		return false
	}
	r.MatchedCNIC = emp.CNIC
	r.MatchedEmployeeNumber = emp.EmployeeNumber
	r.MatchedFullName = emp.FullName
	r.MatchTier = tier
	return true
}

// ExperienceRecord is one work-experience entry extracted from a CV.
type ExperienceRecord struct {
	Name        string `json:"name"`
	Employer    string `json:"employer"`
	JobTitle    string `json:"job_title"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}
