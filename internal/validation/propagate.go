package validation

import (
	"fmt"

	"course-validator/internal/domain"
)

// DefaultMaxPasses bounds propagation work.
const DefaultMaxPasses = 10

// PropagationOutcome is the result set after propagation. Converged is false
// when the pass cap was hit while results were still changing.
type PropagationOutcome struct {
	Results   []domain.ValidationResult
	Passes    int
	Converged bool
}

type courseKey struct {
	code     string
	semester int
}

// Propagate cascades invalid verdicts to dependent courses until nothing
// changes or maxPasses is reached. Each pass reads the previous pass's set and
// writes a new one; results only ever move from valid to invalid. The input
// slice is not modified.
func Propagate(catalog *domain.Catalog, t domain.Transcript, results []domain.ValidationResult, maxPasses int) PropagationOutcome {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	current := append([]domain.ValidationResult(nil), results...)

	byKey := map[courseKey][]int{}
	for i, r := range current {
		if r.IsCreditLimit() {
			continue
		}
		k := courseKey{r.CourseCode, r.SemesterIndex}
		byKey[k] = append(byKey[k], i)
	}

	withdrawn := make([]map[string]bool, len(t.Semesters))
	for i, s := range t.Semesters {
		withdrawn[i] = map[string]bool{}
		for _, r := range s.Registrations {
			if r.Grade == domain.GradeW {
				withdrawn[i][r.Code] = true
			}
		}
	}

	type target struct {
		idx     int
		prereqs []string
	}
	var targets []target
	for i, r := range current {
		if r.IsCreditLimit() || r.Grade == domain.GradeW || r.Grade == domain.GradeN {
			continue
		}
		entry, ok := catalog.Lookup(r.CourseCode)
		if !ok {
			continue
		}
		if prereqs := entry.AllPrerequisites(); len(prereqs) > 0 {
			targets = append(targets, target{idx: i, prereqs: prereqs})
		}
	}

	invalidAt := func(set []domain.ValidationResult, code string, semester int) bool {
		for _, i := range byKey[courseKey{code, semester}] {
			if !set[i].IsValid {
				return true
			}
		}
		return false
	}

	out := PropagationOutcome{Converged: true}
	for pass := 1; pass <= maxPasses; pass++ {
		out.Passes = pass
		next := append([]domain.ValidationResult(nil), current...)
		changed := false

		for _, tg := range targets {
			r := current[tg.idx]
			if !r.IsValid {
				continue
			}
			if reason, bad := invalidatedBy(r, tg.prereqs, withdrawn, t, current, invalidAt); bad {
				next[tg.idx].IsValid = false
				next[tg.idx].Reason = reason
				changed = true
			}
		}

		current = next
		if !changed {
			out.Results = current
			return out
		}
	}

	out.Results = current
	out.Converged = false
	return out
}

func invalidatedBy(
	r domain.ValidationResult,
	prereqs []string,
	withdrawn []map[string]bool,
	t domain.Transcript,
	set []domain.ValidationResult,
	invalidAt func([]domain.ValidationResult, string, int) bool,
) (string, bool) {
	sem := r.SemesterIndex
	if sem >= 0 && sem < len(withdrawn) {
		for _, p := range prereqs {
			if withdrawn[sem][p] {
				return fmt.Sprintf("Prerequisite %s was withdrawn (W) in this semester", p), true
			}
		}
	}
	for _, p := range prereqs {
		for i := 0; i <= sem && i < len(t.Semesters); i++ {
			if invalidAt(set, p, i) {
				return fmt.Sprintf("Prerequisite %s is invalid (%s)", p, t.Semesters[i].Label()), true
			}
		}
	}
	return "", false
}
