package mappers

import (
	"strings"

	"course-validator/internal/domain"
)

// ToTranscript converts a transcript document. Semester order is kept as
// given. When total_credits is absent it is computed from the registrations
// not graded W or N.
func ToTranscript(doc TranscriptDocument) domain.Transcript {
	t := domain.Transcript{
		Student: domain.StudentInfo{
			ID:            doc.StudentInfo.ID.String(),
			Name:          strings.TrimSpace(doc.StudentInfo.Name),
			FieldOfStudy:  strings.TrimSpace(doc.StudentInfo.FieldOfStudy),
			DateAdmission: strings.TrimSpace(doc.StudentInfo.DateAdmission),
		},
		Semesters: make([]domain.Semester, 0, len(doc.Semesters)),
	}

	for i, rec := range doc.Semesters {
		typ, year := semesterTypeAndYear(rec)
		s := domain.Semester{
			Index: i,
			Type:  typ,
			Year:  year,
		}
		for _, c := range rec.Courses {
			s.Registrations = append(s.Registrations, domain.Registration{
				Code:    strings.TrimSpace(c.Code),
				Name:    strings.TrimSpace(c.Name),
				Grade:   domain.NormalizeGrade(c.Grade),
				Credits: c.Credits,
			})
		}
		if rec.TotalCredits != nil {
			s.TotalCredits = *rec.TotalCredits
		} else {
			s.TotalCredits = countedCredits(s.Registrations)
		}
		t.Semesters = append(t.Semesters, s)
	}
	return t
}

// semesterTypeAndYear prefers the explicit fields and falls back to parsing
// the display label ("Second 2023").
func semesterTypeAndYear(rec SemesterRecord) (domain.SemesterType, string) {
	typ := strings.TrimSpace(rec.SemesterType)
	year := rec.Year.String()
	if typ == "" || year == "" {
		parts := strings.Fields(rec.Semester)
		if len(parts) >= 2 {
			if typ == "" {
				typ = parts[0]
			}
			if year == "" {
				year = parts[len(parts)-1]
			}
		}
	}
	return normalizeSemesterType(typ), year
}

func normalizeSemesterType(s string) domain.SemesterType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first", "1", "1st":
		return domain.SemesterFirst
	case "second", "2", "2nd":
		return domain.SemesterSecond
	case "summer", "s":
		return domain.SemesterSummer
	}
	return domain.SemesterType(s)
}

func countedCredits(regs []domain.Registration) int {
	total := 0
	for _, r := range regs {
		if r.Grade == domain.GradeW || r.Grade == domain.GradeN {
			continue
		}
		total += r.Credits
	}
	return total
}
