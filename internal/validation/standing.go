package validation

type Standing string

const (
	StandingUnknown   Standing = "N/A"
	StandingCritical  Standing = "CRITICAL"
	StandingWarning   Standing = "WARNING"
	StandingProbation Standing = "PROBATION"
	StandingNormal    Standing = "NORMAL"
)

// StandingFor maps a cumulative GPA to an academic standing.
func StandingFor(gpa float64) Standing {
	switch {
	case gpa < 1.50:
		return StandingCritical
	case gpa < 1.75:
		return StandingWarning
	case gpa < 2.00:
		return StandingProbation
	}
	return StandingNormal
}

// Threshold describes the boundary that put a GPA into s, e.g. "GPA < 1.50".
func (s Standing) Threshold() string {
	switch s {
	case StandingCritical:
		return "GPA < 1.50"
	case StandingWarning:
		return "GPA < 1.75"
	case StandingProbation:
		return "GPA < 2.00"
	}
	return ""
}
