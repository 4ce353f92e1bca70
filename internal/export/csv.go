package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"course-validator/internal/batch"
	"course-validator/internal/domain"
	"course-validator/internal/validation"
)

// Keep header order EXACT; downstream sheets index by column.
var resultsHeader = []string{
	"STUDENT_ID",
	"SEMESTER_INDEX",
	"SEMESTER",
	"COURSE_CODE",
	"COURSE_NAME",
	"GRADE",
	"CREDITS",
	"TYPE",
	"VALID",
	"REASON",
}

var semesterHeader = []string{
	"STUDENT_ID",
	"SEMESTER_INDEX",
	"SEMESTER",
	"TOTAL_CREDITS",
	"SEMESTER_GPA",
	"CUMULATIVE_GPA",
	"VALID_SEMESTER_GPA",
	"VALID_CUMULATIVE_GPA",
	"INVALID_COUNT",
	"CREDIT_NOTICE",
}

var batchHeader = []string{
	"RUN_ID",
	"SOURCE",
	"STUDENT_ID",
	"STUDENT_NAME",
	"STATUS",
	"SEMESTERS",
	"REGISTRATIONS",
	"INVALID",
	"CREDIT_NOTICES",
	"UNKNOWN_COURSES",
	"CUMULATIVE_GPA",
	"STANDING",
	"CONVERGED",
	"ERROR",
}

func newCSV(w io.Writer, header []string) (*csv.Writer, error) {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return cw, cw.Write(header)
}

func flush(cw *csv.Writer) error {
	cw.Flush()
	return cw.Error()
}

func gpa(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// WriteResultsCSV writes one row per result in report order. Credit-limit
// rows carry the semester's registered credits.
func WriteResultsCSV(w io.Writer, r *validation.Report) error {
	cw, err := newCSV(w, resultsHeader)
	if err != nil {
		return err
	}
	id := r.Transcript.Student.ID
	for _, res := range r.Results {
		sem := r.Transcript.Semesters[res.SemesterIndex]
		credits := sem.TotalCredits
		if reg, ok := registration(r, res); ok {
			credits = reg.Credits
		}
		row := []string{
			id,
			strconv.Itoa(res.SemesterIndex),
			sem.Label(),
			res.CourseCode,
			res.CourseName,
			string(res.Grade),
			strconv.Itoa(credits),
			string(res.Kind),
			strconv.FormatBool(res.IsValid),
			res.Reason,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return flush(cw)
}

// WriteSemesterSummaryCSV writes the four GPA views per semester.
func WriteSemesterSummaryCSV(w io.Writer, r *validation.Report) error {
	cw, err := newCSV(w, semesterHeader)
	if err != nil {
		return err
	}

	invalid := make(map[int]int)
	notice := make(map[int]string)
	for _, res := range r.Results {
		switch {
		case res.IsCreditLimit():
			notice[res.SemesterIndex] = res.Reason
		case !res.IsValid:
			invalid[res.SemesterIndex]++
		}
	}

	for _, g := range r.GPASlices() {
		sem := r.Transcript.Semesters[g.SemesterIndex]
		row := []string{
			r.Transcript.Student.ID,
			strconv.Itoa(g.SemesterIndex),
			sem.Label(),
			strconv.Itoa(sem.TotalCredits),
			gpa(g.Semester),
			gpa(g.Cumulative),
			gpa(g.ValidSemester),
			gpa(g.ValidCumulative),
			strconv.Itoa(invalid[g.SemesterIndex]),
			notice[g.SemesterIndex],
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return flush(cw)
}

// WriteBatchSummaryCSV writes one row per batch outcome.
func WriteBatchSummaryCSV(w io.Writer, runID string, outcomes []batch.Outcome) error {
	cw, err := newCSV(w, batchHeader)
	if err != nil {
		return err
	}
	for _, o := range outcomes {
		if err := cw.Write(batchRow(runID, o)); err != nil {
			return err
		}
	}
	return flush(cw)
}

func batchRow(runID string, o batch.Outcome) []string {
	if o.Err != nil || o.Report == nil {
		msg := ""
		if o.Err != nil {
			msg = o.Err.Error()
		}
		return []string{runID, o.Source, "", "", "failed", "", "", "", "", "", "", "", "", msg}
	}

	r := o.Report
	t := r.Transcript
	cum := 0.0
	if n := len(t.Semesters); n > 0 {
		cum = validation.CumulativeGPA(t, n-1)
	}
	return []string{
		runID,
		o.Source,
		t.Student.ID,
		t.Student.Name,
		"ok",
		strconv.Itoa(len(t.Semesters)),
		strconv.Itoa(r.Registrations()),
		strconv.Itoa(len(r.Invalid())),
		strconv.Itoa(len(r.CreditNotices())),
		strconv.Itoa(len(r.Unknown)),
		gpa(cum),
		string(r.Standing()),
		strconv.FormatBool(r.Converged),
		"",
	}
}

// registration returns the registration a prerequisite result refers to.
func registration(r *validation.Report, res domain.ValidationResult) (domain.Registration, bool) {
	if res.IsCreditLimit() || res.SemesterIndex >= len(r.Transcript.Semesters) {
		return domain.Registration{}, false
	}
	regs := r.Transcript.Semesters[res.SemesterIndex].Registrations
	if res.RegistrationIndex < 0 || res.RegistrationIndex >= len(regs) {
		return domain.Registration{}, false
	}
	return regs[res.RegistrationIndex], true
}
