package validation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"course-validator/internal/domain"
)

func mustCatalog(t *testing.T, entries ...domain.CatalogEntry) *domain.Catalog {
	t.Helper()
	c, err := domain.NewCatalog(entries)
	require.NoError(t, err)
	return c
}

func reg(code string, grade domain.Grade, credits int) domain.Registration {
	return domain.Registration{Code: code, Name: code + " course", Grade: grade, Credits: credits}
}

// transcriptOf builds First/Second semesters starting in 2022, totals computed
// the way the ingestion layer does.
func transcriptOf(semesters ...[]domain.Registration) domain.Transcript {
	t := domain.Transcript{Student: domain.StudentInfo{ID: "6300001", Name: "Test Student"}}
	for i, regs := range semesters {
		typ := domain.SemesterFirst
		if i%2 == 1 {
			typ = domain.SemesterSecond
		}
		total := 0
		for _, r := range regs {
			if r.Grade != domain.GradeW && r.Grade != domain.GradeN {
				total += r.Credits
			}
		}
		t.Semesters = append(t.Semesters, domain.Semester{
			Index:         i,
			Type:          typ,
			Year:          "2022",
			Registrations: regs,
			TotalCredits:  total,
		})
	}
	return t
}

func legacy(code string, prereqs ...string) domain.CatalogEntry {
	return domain.CatalogEntry{Code: code, Name: code, Credits: 3, Prerequisites: prereqs}
}
