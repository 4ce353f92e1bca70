package export

import (
	"encoding/xml"
	"fmt"
	"io"

	"course-validator/internal/validation"
)

/*
<ValidationReport student_id="6312345" standing="NORMAL" converged="true" passes="1">
  <Student>
    <name>...</name>
    <field_of_study>...</field_of_study>
    <date_admission>...</date_admission>
  </Student>
  <Semester index="0" label="First 2022" total_credits="18" gpa="3.25" cumulative_gpa="3.25"
            valid_gpa="3.25" valid_cumulative_gpa="3.25">
    <CreditNotice>NOTICE: ...</CreditNotice>
    <Course code="IE101" grade="A" credits="3" valid="true">
      <name>...</name>
      <reason>...</reason>
    </Course>
  </Semester>
  <UnknownCourse code="XX999" semester="First 2022">...</UnknownCourse>
  <Diagnostic>...</Diagnostic>
</ValidationReport>
*/

type xmlReport struct {
	XMLName   xml.Name `xml:"ValidationReport"`
	StudentID string   `xml:"student_id,attr"`
	Standing  string   `xml:"standing,attr"`
	Converged bool     `xml:"converged,attr"`
	Passes    int      `xml:"passes,attr"`

	Student     xmlStudent    `xml:"Student"`
	Semesters   []xmlSemester `xml:"Semester"`
	Unknown     []xmlUnknown  `xml:"UnknownCourse,omitempty"`
	Diagnostics []string      `xml:"Diagnostic,omitempty"`
}

type xmlStudent struct {
	Name          string `xml:"name,omitempty"`
	FieldOfStudy  string `xml:"field_of_study,omitempty"`
	DateAdmission string `xml:"date_admission,omitempty"`
}

type xmlSemester struct {
	Index              int         `xml:"index,attr"`
	Label              string      `xml:"label,attr"`
	TotalCredits       int         `xml:"total_credits,attr"`
	GPA                string      `xml:"gpa,attr"`
	CumulativeGPA      string      `xml:"cumulative_gpa,attr"`
	ValidGPA           string      `xml:"valid_gpa,attr"`
	ValidCumulativeGPA string      `xml:"valid_cumulative_gpa,attr"`
	CreditNotice       string      `xml:"CreditNotice,omitempty"`
	Courses            []xmlCourse `xml:"Course"`
}

type xmlCourse struct {
	Code    string `xml:"code,attr"`
	Grade   string `xml:"grade,attr"`
	Credits int    `xml:"credits,attr"`
	Valid   bool   `xml:"valid,attr"`
	Name    string `xml:"name,omitempty"`
	Reason  string `xml:"reason"`
}

type xmlUnknown struct {
	Code     string `xml:"code,attr"`
	Semester string `xml:"semester,attr"`
	Name     string `xml:",chardata"`
}

// WriteResultsXML writes the report as one ValidationReport document.
func WriteResultsXML(w io.Writer, r *validation.Report) error {
	t := r.Transcript
	out := xmlReport{
		StudentID: t.Student.ID,
		Standing:  string(r.Standing()),
		Converged: r.Converged,
		Passes:    r.Passes,
		Student: xmlStudent{
			Name:          t.Student.Name,
			FieldOfStudy:  t.Student.FieldOfStudy,
			DateAdmission: t.Student.DateAdmission,
		},
		Diagnostics: r.Diagnostics,
	}

	slices := r.GPASlices()
	for i, sem := range t.Semesters {
		out.Semesters = append(out.Semesters, xmlSemester{
			Index:              i,
			Label:              sem.Label(),
			TotalCredits:       sem.TotalCredits,
			GPA:                gpa(slices[i].Semester),
			CumulativeGPA:      gpa(slices[i].Cumulative),
			ValidGPA:           gpa(slices[i].ValidSemester),
			ValidCumulativeGPA: gpa(slices[i].ValidCumulative),
		})
	}

	for _, res := range r.Results {
		s := &out.Semesters[res.SemesterIndex]
		if res.IsCreditLimit() {
			s.CreditNotice = res.Reason
			continue
		}
		reg, _ := registration(r, res)
		s.Courses = append(s.Courses, xmlCourse{
			Code:    res.CourseCode,
			Grade:   string(res.Grade),
			Credits: reg.Credits,
			Valid:   res.IsValid,
			Name:    res.CourseName,
			Reason:  res.Reason,
		})
	}

	for _, u := range r.Unknown {
		out.Unknown = append(out.Unknown, xmlUnknown{Code: u.Code, Semester: u.Semester, Name: u.Name})
	}

	b, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal xml: %w", err)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("export: write xml: %w", err)
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("export: write xml: %w", err)
	}
	return nil
}
