package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"course-validator/internal/domain"
	"course-validator/internal/validation"
)

const ruleWidth = 80

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

// clip shortens s to max characters.
func clip(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}

// WriteSummaryReport writes the plain-text validation report for one student.
func WriteSummaryReport(w io.Writer, r *validation.Report, generated time.Time) error {
	bw := bufio.NewWriter(w)
	line := func(format string, args ...any) {
		fmt.Fprintf(bw, format+"\n", args...)
	}
	rule := func(ch string, n int) { line("%s", strings.Repeat(ch, n)) }

	t := r.Transcript
	slices := r.GPASlices()

	rule("=", ruleWidth)
	line("COURSE REGISTRATION VALIDATION REPORT")
	line("Generated: %s", generated.Format("2006-01-02 15:04:05"))
	rule("=", ruleWidth)
	line("")

	line("STUDENT INFORMATION")
	rule("-", ruleWidth)
	line("Student ID:        %s", orUnknown(t.Student.ID))
	line("Name:              %s", orUnknown(t.Student.Name))
	line("Field of Study:    %s", orUnknown(t.Student.FieldOfStudy))
	line("Date of Admission: %s", orUnknown(t.Student.DateAdmission))
	if n := len(slices); n > 0 {
		line("Current GPA:       %s", gpa(slices[n-1].Cumulative))
		standing := r.Standing()
		if th := standing.Threshold(); th != "" {
			line("Academic Status:   %s (%s)", standing, th)
		} else {
			line("Academic Status:   %s", standing)
		}
	}
	line("")

	invalid := r.Invalid()
	line("VALIDATION SUMMARY")
	rule("-", ruleWidth)
	line("Semesters Analyzed:    %d", len(t.Semesters))
	line("Registrations Checked: %d", r.Registrations())
	line("Invalid Registrations: %d", len(invalid))
	line("Credit Notices:        %d", len(r.CreditNotices()))
	for _, d := range r.Diagnostics {
		line("Diagnostic:            %s", d)
	}
	line("")

	line("SEMESTER DETAILS")
	rule("-", ruleWidth)
	for i, sem := range t.Semesters {
		label := sem.Label()
		line("")
		line("%s", label)
		rule("-", len(label))
		line("Total Credits: %d", sem.TotalCredits)
		line("Overall - Semester GPA: %s, Cumulative GPA: %s", gpa(slices[i].Semester), gpa(slices[i].Cumulative))

		semInvalid := 0
		for j := range sem.Registrations {
			if res, ok := r.ResultFor(i, j); ok && !res.IsValid {
				semInvalid++
			}
		}
		if semInvalid > 0 {
			line("Valid only - Semester GPA: %s, Cumulative GPA: %s", gpa(slices[i].ValidSemester), gpa(slices[i].ValidCumulative))
		}
		for _, n := range r.CreditNotices() {
			if n.SemesterIndex == i {
				line("%s", n.Reason)
			}
		}

		line("")
		line("Courses:")
		line("%-10s %-40s %-7s %-8s %-10s", "Code", "Name", "Grade", "Credits", "Status")
		rule("-", ruleWidth)
		for j, reg := range sem.Registrations {
			res, ok := r.ResultFor(i, j)
			status := "Valid"
			if ok && !res.IsValid {
				status = "INVALID"
			}
			line("%-10s %-40s %-7s %-8d %-10s", reg.Code, clip(orUnknown(reg.Name), 38), reg.Grade, reg.Credits, status)
			if status == "INVALID" {
				line("  -> Issue: %s", res.Reason)
			}
		}
	}

	if len(invalid) > 0 {
		line("")
		line("")
		line("INVALID REGISTRATIONS DETAILS")
		rule("-", ruleWidth)
		last := -1
		for _, res := range invalid {
			if res.SemesterIndex != last {
				last = res.SemesterIndex
				line("")
				line("Semester: %s", t.Semesters[last].Label())
			}
			line("  * Course: %s - %s", res.CourseCode, orUnknown(res.CourseName))
			line("    Type: %s", kindTitle(res.Kind))
			line("    Reason: %s", res.Reason)
		}
	}

	if len(r.Unknown) > 0 {
		line("")
		line("")
		line("COURSES NOT IN COURSE DATA")
		rule("-", ruleWidth)
		line("The following courses were not found in the course data file and could not be validated.")
		line("Please check prerequisites manually for these courses:")
		line("")
		line("%-10s %-40s %-20s", "Code", "Name", "Semester")
		rule("-", 70)
		for _, u := range r.Unknown {
			line("%-10s %-40s %-20s", u.Code, clip(orUnknown(u.Name), 38), u.Semester)
		}
	}

	return bw.Flush()
}

func kindTitle(k domain.ResultKind) string {
	s := strings.ReplaceAll(string(k), "_", " ")
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
