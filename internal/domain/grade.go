package domain

import "strings"

type Grade string

const (
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeCPlus Grade = "C+"
	GradeC     Grade = "C"
	GradeDPlus Grade = "D+"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
	GradeW     Grade = "W" // withdrawn
	GradeP     Grade = "P" // pass, no points
	GradeN     Grade = "N" // not graded yet
)

var gradePoints = map[Grade]float64{
	GradeA:     4.0,
	GradeBPlus: 3.5,
	GradeB:     3.0,
	GradeCPlus: 2.5,
	GradeC:     2.0,
	GradeDPlus: 1.5,
	GradeD:     1.0,
	GradeF:     0.0,
}

// NormalizeGrade trims and upper-cases raw grade text. Unrecognized values
// are kept as-is and simply never count as passing or gradable.
func NormalizeGrade(s string) Grade {
	return Grade(strings.ToUpper(strings.TrimSpace(s)))
}

// IsPassing reports whether the grade puts the course into passed history.
func (g Grade) IsPassing() bool {
	switch g {
	case GradeA, GradeBPlus, GradeB, GradeCPlus, GradeC, GradeDPlus, GradeD, GradeP:
		return true
	}
	return false
}

// Points returns grade points and whether the grade counts toward a GPA.
func (g Grade) Points() (float64, bool) {
	p, ok := gradePoints[g]
	return p, ok
}

// IsKnown reports whether g is one of the recognized grade values.
func (g Grade) IsKnown() bool {
	if _, ok := gradePoints[g]; ok {
		return true
	}
	return g == GradeW || g == GradeP || g == GradeN
}
