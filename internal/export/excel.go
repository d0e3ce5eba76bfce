// excel.go - Oracle loader workbook generation for merged education records

package export

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/eduparser/edu_parser_gemini/internal/records"
)

// Oracle loader column order. The loader is positional, so this order is part
// of the contract.
var oracleHeaders = []string{
	"CNIC",
	"EMP",
	"NAME",
	"Father Name",
	"Nationality",
	"Degree Start Date",
	"Degree End Date",
	"Average Grade",
	"Education Level",
	"Degree Name",
	"Graduated",
	"Major",
	"School",
}

// dateLayouts are the formats extraction and uploads produce. Tried in order.
var dateLayouts = []string{
	"2/1/2006",
	"02/01/2006",
	"2006-01-02",
	"1/2/2006",
}

// parseDate attempts to parse a record date. Returns zero time when the value
// is empty or unparseable.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// formatDate renders a date as M/D/YYYY without leading zeros, the format the
// Oracle loader expects. Unparseable values pass through unchanged.
func formatDate(s string) string {
	t := parseDate(s)
	if t.IsZero() {
		return s
	}
	return fmt.Sprintf("%d/%d/%d", t.Month(), t.Day(), t.Year())
}

// WriteOracleWorkbook renders the merged records as an Oracle loader XLSX.
// Rows are sorted by CNIC, then by degree start date with undated rows last.
func WriteOracleWorkbook(recs []records.EducationRecord) (*bytes.Buffer, error) {
	sorted := make([]records.EducationRecord, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].MatchedCNIC != sorted[j].MatchedCNIC {
			return sorted[i].MatchedCNIC < sorted[j].MatchedCNIC
		}
		ti, tj := parseDate(sorted[i].DegreeStartDate), parseDate(sorted[j].DegreeStartDate)
		if ti.IsZero() != tj.IsZero() {
			return tj.IsZero()
		}
		return ti.Before(tj)
	})

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, h := range oracleHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header %q: %w", h, err)
		}
	}

	for i, rec := range sorted {
		// NAME carries the roster spelling, not the certificate one; the
		// loader keys on it. Unmatched rows leave it blank.
		values := []string{
			rec.MatchedCNIC,
			rec.MatchedEmployeeNumber,
			rec.MatchedFullName,
			rec.FatherName,
			rec.CountryCode,
			formatDate(rec.DegreeStartDate),
			formatDate(rec.DegreeEndDate),
			rec.AverageGrade,
			rec.EducationLevel,
			rec.DegreeName,
			rec.Graduated,
			rec.Major,
			rec.School,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell for row %d: %w", i+2, err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return &buf, nil
}
