package validation

import (
	"math"

	"course-validator/internal/domain"
)

// GPA returns the credit-weighted grade point average rounded to two
// decimals, and the credits counted. W, P, N and unknown grades are skipped.
func GPA(regs []domain.Registration) (float64, int) {
	var points float64
	var credits int
	for _, r := range regs {
		p, ok := r.Grade.Points()
		if !ok {
			continue
		}
		points += p * float64(r.Credits)
		credits += r.Credits
	}
	if credits == 0 {
		return 0, 0
	}
	return round2(points / float64(credits)), credits
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func SemesterGPA(t domain.Transcript, i int) float64 {
	if i < 0 || i >= len(t.Semesters) {
		return 0
	}
	g, _ := GPA(t.Semesters[i].Registrations)
	return g
}

func CumulativeGPA(t domain.Transcript, i int) float64 {
	var regs []domain.Registration
	for k := 0; k <= i && k < len(t.Semesters); k++ {
		regs = append(regs, t.Semesters[k].Registrations...)
	}
	g, _ := GPA(regs)
	return g
}

func ValidSemesterGPA(t domain.Transcript, results []domain.ValidationResult, i int) float64 {
	if i < 0 || i >= len(t.Semesters) {
		return 0
	}
	g, _ := GPA(validRegistrations(t, results, i, i))
	return g
}

func ValidCumulativeGPA(t domain.Transcript, results []domain.ValidationResult, i int) float64 {
	g, _ := GPA(validRegistrations(t, results, 0, i))
	return g
}

// validRegistrations keeps the registrations of semesters from..to whose
// prerequisite result exists and is valid.
func validRegistrations(t domain.Transcript, results []domain.ValidationResult, from, to int) []domain.Registration {
	valid := map[[2]int]bool{}
	for _, r := range results {
		if r.IsCreditLimit() || r.SemesterIndex < from || r.SemesterIndex > to {
			continue
		}
		k := [2]int{r.SemesterIndex, r.RegistrationIndex}
		if seen, ok := valid[k]; ok {
			valid[k] = seen && r.IsValid
			continue
		}
		valid[k] = r.IsValid
	}

	var out []domain.Registration
	for s := from; s <= to && s < len(t.Semesters); s++ {
		for j, reg := range t.Semesters[s].Registrations {
			if valid[[2]int{s, j}] {
				out = append(out, reg)
			}
		}
	}
	return out
}

// GPASlice is the four GPA views of one semester.
type GPASlice struct {
	SemesterIndex   int
	Semester        float64
	Cumulative      float64
	ValidSemester   float64
	ValidCumulative float64
}

func GPASlices(t domain.Transcript, results []domain.ValidationResult) []GPASlice {
	out := make([]GPASlice, len(t.Semesters))
	for i := range t.Semesters {
		out[i] = GPASlice{
			SemesterIndex:   i,
			Semester:        SemesterGPA(t, i),
			Cumulative:      CumulativeGPA(t, i),
			ValidSemester:   ValidSemesterGPA(t, results, i),
			ValidCumulative: ValidCumulativeGPA(t, results, i),
		}
	}
	return out
}
