// prompts.go - Prompt templates for document extraction and name matching

package ai

import (
	"encoding/json"
	"fmt"
)

// educationExtractionPrompt instructs the model to parse a Pakistani
// educational document (degree, transcript, marksheet) into the Oracle
// loader record shape.
const educationExtractionPrompt = `You are an education document parser and data entry specialist for an Oracle HR system. Extract data from this image of a Pakistani educational document (Degree, Transcript, or Marksheet) into strict JSON.

Rules:

1. Name extraction (CRITICAL): the field labeled "Name", "Student Name", or "Candidate Name" is ALWAYS the student. The field labeled "Father's Name", "Father Name", or following "S/O"/"D/O" is ALWAYS the father. When two names appear stacked, the first is the student and the second is the father.

2. Education level codes:
   10 = Matriculation / SSC
   12 = Intermediate / HSSC / FA / FSc
   28 = Associate's Degree / Diploma (DAE)
   14 = Bachelor's Degree
   16 = Master's Degree
   18 = Doctorate

3. Dates (D/M/YYYY, no leading zeros):
   Matriculation: end 7/7/[exam year], start 5/5/[exam year - 2]
   Intermediate: end 7/7/[exam year], start 8/8/[exam year - 2]
   Diploma/DAE: end 7/7/[exam year], start 8/8/[exam year - 2] (or 3 years if the document says so)
   Bachelor's: end 6/6/[exam year], start 9/9/[exam year - duration] (default 4 years for BS, 2 for BA/B.Com)
   Master's/PhD: end 1/1/[exam year], start 1/1/[exam year - duration] (default 2 years)

4. School: the awarding board or institution exactly as printed (e.g. "FBISE, Islamabad", "BISE, Sukkur").

5. Country Code is "PK" unless the document is foreign. Graduated is "Y" when the document certifies completion.

6. Use "" for anything not present on the document. Never invent values.

Return ONLY valid JSON in this format:
{
  "records": [
    {
      "name": "Full name of the candidate (student only)",
      "father_name": "Father's full name if printed",
      "country_code": "PK",
      "degree_start_date": "D/M/YYYY",
      "degree_end_date": "D/M/YYYY",
      "average_grade": "Grade or division as printed",
      "education_level": "10|12|28|14|16|18",
      "degree_name": "Degree title as printed",
      "graduated": "Y or N",
      "major": "Field of study",
      "school": "Awarding board or institution"
    }
  ]
}`

// experienceExtractionPrompt parses the work-experience section of a CV page.
const experienceExtractionPrompt = `You are a CV parser for an Oracle HR system. Extract every work-experience entry visible on this CV page into strict JSON.

Rules:
1. The candidate's own name appears once at the top of the CV; repeat it on every record.
2. One record per employment entry. Keep employer and job title exactly as written.
3. Dates as D/M/YYYY where a full date is given, M/YYYY or YYYY otherwise; "" when absent. An ongoing role has end_date "".
4. Never invent values.

Return ONLY valid JSON in this format:
{
  "records": [
    {
      "name": "Candidate name",
      "employer": "Company or organization",
      "job_title": "Position held",
      "start_date": "",
      "end_date": "",
      "description": "One-line summary of duties if present"
    }
  ]
}`

// nameMatchingPrompt builds the tier-3 matching request: map each education
// name to its best employee-roster candidate, or null.
func nameMatchingPrompt(queries, candidates []string) (string, error) {
	queryJSON, err := json.MarshalIndent(queries, "", "  ")
	if err != nil {
		return "", err
	}
	candidateJSON, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`You are a name matching expert. Match names from List A (education records) to List B (employee records).
Names may have slight spelling variations, typos, or different transliterations (e.g., "Wajahat" vs "Wajahet", "Muhammad" vs "Mohammad").

List A (Education Names):
%s

List B (Employee Names):
%s

Return a JSON object mapping each name from List A to its best match in List B.
If no good match exists, map to null.
Only match names that are clearly the same person (similar spelling/sound).

Return ONLY valid JSON in this format:
{
  "matches": {
    "Education Name 1": "Employee Name Match or null",
    "Education Name 2": "Employee Name Match or null"
  }
}`, queryJSON, candidateJSON), nil
}
