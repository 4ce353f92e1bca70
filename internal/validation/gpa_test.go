package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"course-validator/internal/domain"
)

func TestGPA(t *testing.T) {
	testCases := []struct {
		name    string
		regs    []domain.Registration
		gpa     float64
		credits int
	}{
		{"weighted average", []domain.Registration{reg("A1", domain.GradeA, 3), reg("B1", domain.GradeB, 3)}, 3.5, 6},
		{"rounded to two decimals", []domain.Registration{reg("A1", domain.GradeA, 3), reg("B1", domain.GradeB, 3), reg("B2", domain.GradeB, 3)}, 3.33, 9},
		{"non-gradable grades skipped", []domain.Registration{
			reg("A1", domain.GradeCPlus, 2), reg("W1", domain.GradeW, 3), reg("P1", domain.GradeP, 1),
			reg("N1", domain.GradeN, 3), reg("X1", domain.NormalizeGrade("I"), 3),
		}, 2.5, 2},
		{"failures count", []domain.Registration{reg("A1", domain.GradeA, 3), reg("F1", domain.GradeF, 1)}, 3.0, 4},
		{"no credits", []domain.Registration{reg("W1", domain.GradeW, 3)}, 0, 0},
		{"empty", nil, 0, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gpa, credits := GPA(tc.regs)
			assert.Equal(t, tc.gpa, gpa)
			assert.Equal(t, tc.credits, credits)
		})
	}
}

func TestGPAViews(t *testing.T) {
	tr := transcriptOf(
		[]domain.Registration{reg("A1", domain.GradeA, 3), reg("B1", domain.GradeB, 3)},
		[]domain.Registration{reg("C1", domain.GradeC, 3), reg("D1", domain.GradeD, 3)},
	)
	results := []domain.ValidationResult{
		{SemesterIndex: 0, RegistrationIndex: 0, CourseCode: "A1", IsValid: true, Kind: domain.KindPrerequisite},
		{SemesterIndex: 0, RegistrationIndex: 1, CourseCode: "B1", IsValid: false, Kind: domain.KindPrerequisite},
		{SemesterIndex: 1, RegistrationIndex: -1, CourseCode: domain.CreditLimitCode, IsValid: true, Kind: domain.KindCreditLimit},
		{SemesterIndex: 1, RegistrationIndex: 0, CourseCode: "C1", IsValid: true, Kind: domain.KindPrerequisite},
		{SemesterIndex: 1, RegistrationIndex: 1, CourseCode: "D1", IsValid: true, Kind: domain.KindPrerequisite},
	}

	assert.Equal(t, 3.5, SemesterGPA(tr, 0))
	assert.Equal(t, 1.5, SemesterGPA(tr, 1))
	assert.Equal(t, 2.5, CumulativeGPA(tr, 1))
	assert.Equal(t, 4.0, ValidSemesterGPA(tr, results, 0))
	assert.Equal(t, 1.5, ValidSemesterGPA(tr, results, 1))
	// (4*3 + 2*3 + 1*3) / 9
	assert.Equal(t, 2.33, ValidCumulativeGPA(tr, results, 1))
	assert.Equal(t, 0.0, SemesterGPA(tr, 5))

	slices := GPASlices(tr, results)
	assert.Len(t, slices, 2)
	assert.Equal(t, GPASlice{SemesterIndex: 1, Semester: 1.5, Cumulative: 2.5, ValidSemester: 1.5, ValidCumulative: 2.33}, slices[1])
}

func TestValidGPAExcludesRegistrationsWithoutResult(t *testing.T) {
	tr := transcriptOf([]domain.Registration{reg("A1", domain.GradeA, 3), reg("F1", domain.GradeF, 3)})
	results := []domain.ValidationResult{
		{SemesterIndex: 0, RegistrationIndex: 1, CourseCode: "F1", IsValid: true, Kind: domain.KindPrerequisite},
	}
	assert.Equal(t, 0.0, ValidSemesterGPA(tr, results, 0))
}

func TestStandingFor(t *testing.T) {
	assert.Equal(t, StandingCritical, StandingFor(1.49))
	assert.Equal(t, StandingWarning, StandingFor(1.50))
	assert.Equal(t, StandingProbation, StandingFor(1.99))
	assert.Equal(t, StandingNormal, StandingFor(2.00))
	assert.Equal(t, "GPA < 1.75", StandingWarning.Threshold())
	assert.Empty(t, StandingNormal.Threshold())
}
