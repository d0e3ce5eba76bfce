// load.go - Tabular loading of rosters, education data, and reference school
// lists from XLSX or CSV uploads, with required-column precondition checks.

package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Required employee roster columns (case-insensitive in the file).
const (
	ColCNIC           = "CNIC"
	ColEmployeeNumber = "EMPLOYEE_NUMBER"
	ColFullName       = "FULL_NAME"
	ColName           = "Name"
	ColSchool         = "School"
)

// MissingColumnsError reports a precondition failure: the uploaded table lacks
// required columns. It is raised before any matching runs.
type MissingColumnsError struct {
	Missing   []string
	Available []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s (available: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Available, ", "))
}

// table is a header-indexed view over the raw rows of an uploaded file.
type table struct {
	headers []string
	index   map[string]int // normalized header -> column position
	rows    [][]string
}

func normalizeHeader(h string) string {
	return strings.ToUpper(strings.TrimSpace(h))
}

func newTable(rows [][]string) (*table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("file contains no rows")
	}
	t := &table{headers: rows[0], index: make(map[string]int), rows: rows[1:]}
	for i, h := range rows[0] {
		key := normalizeHeader(h)
		if _, exists := t.index[key]; !exists {
			t.index[key] = i
		}
	}
	return t, nil
}

// requireColumns returns a MissingColumnsError naming every absent column.
func (t *table) requireColumns(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if _, ok := t.index[normalizeHeader(c)]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Missing: missing, Available: t.headers}
	}
	return nil
}

func (t *table) cell(row []string, col string) string {
	i, ok := t.index[normalizeHeader(col)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// readRows parses the upload into raw rows. CSV is detected by filename;
// everything else goes through excelize (first sheet).
func readRows(r io.Reader, filename string) ([][]string, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		return rows, nil
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// LoadEmployees reads the employee roster. CNIC, EMPLOYEE_NUMBER and
// FULL_NAME are all required.
func LoadEmployees(r io.Reader, filename string) ([]EmployeeRecord, error) {
	rows, err := readRows(r, filename)
	if err != nil {
		return nil, err
	}
	t, err := newTable(rows)
	if err != nil {
		return nil, err
	}
	if err := t.requireColumns(ColCNIC, ColEmployeeNumber, ColFullName); err != nil {
		return nil, err
	}

	employees := make([]EmployeeRecord, 0, len(t.rows))
	for _, row := range t.rows {
		emp := EmployeeRecord{
			CNIC:           t.cell(row, ColCNIC),
			EmployeeNumber: t.cell(row, ColEmployeeNumber),
			FullName:       t.cell(row, ColFullName),
		}
		if emp.CNIC == "" && emp.EmployeeNumber == "" && emp.FullName == "" {
			continue
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

// LoadEducation reads extracted education records. Only the Name column is
// required; the remaining Oracle loader columns are optional.
func LoadEducation(r io.Reader, filename string) ([]EducationRecord, error) {
	rows, err := readRows(r, filename)
	if err != nil {
		return nil, err
	}
	t, err := newTable(rows)
	if err != nil {
		return nil, err
	}
	if err := t.requireColumns(ColName); err != nil {
		return nil, err
	}

	recs := make([]EducationRecord, 0, len(t.rows))
	for _, row := range t.rows {
		rec := EducationRecord{
			Name:            t.cell(row, ColName),
			FatherName:      t.cell(row, "Father Name"),
			CountryCode:     t.cell(row, "Country Code"),
			DegreeStartDate: t.cell(row, "Degree Start Date"),
			DegreeEndDate:   t.cell(row, "Degree End Date"),
			AverageGrade:    t.cell(row, "Average Grade"),
			EducationLevel:  t.cell(row, "Education Level"),
			DegreeName:      t.cell(row, "Degree Name"),
			Graduated:       t.cell(row, "Graduated"),
			Major:           t.cell(row, "Major"),
			School:          t.cell(row, ColSchool),
		}
		if rec.Name == "" && rec.School == "" && rec.DegreeName == "" {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// LoadReferenceSchools reads the canonical school list. It looks for a
// School / School Name / INSTITUTE_NAME column and falls back to the first
// column. Order and case are preserved; exact duplicates are dropped.
func LoadReferenceSchools(r io.Reader, filename string) ([]string, error) {
	rows, err := readRows(r, filename)
	if err != nil {
		return nil, err
	}
	t, err := newTable(rows)
	if err != nil {
		return nil, err
	}

	col := t.headers[0]
	for _, candidate := range []string{"School", "School Name", "INSTITUTE_NAME"} {
		if _, ok := t.index[normalizeHeader(candidate)]; ok {
			col = candidate
			break
		}
	}

	seen := make(map[string]bool)
	var schools []string
	for _, row := range t.rows {
		name := t.cell(row, col)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		schools = append(schools, name)
	}
	return schools, nil
}
