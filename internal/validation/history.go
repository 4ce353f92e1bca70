package validation

import "course-validator/internal/domain"

// History holds one snapshot per semester: every course passed in semesters
// 0..i mapped to its latest passing grade. Snapshots only ever grow.
type History []map[string]domain.Grade

// BuildHistory derives the cumulative passed-courses history. Inputs are not
// modified.
func BuildHistory(semesters []domain.Semester) History {
	h := make(History, 0, len(semesters))
	cumulative := map[string]domain.Grade{}

	for _, s := range semesters {
		snapshot := make(map[string]domain.Grade, len(cumulative))
		for code, g := range cumulative {
			snapshot[code] = g
		}
		for _, r := range s.Registrations {
			if !r.Grade.IsPassing() {
				continue
			}
			snapshot[r.Code] = r.Grade
			cumulative[r.Code] = r.Grade
		}
		h = append(h, snapshot)
	}
	return h
}

// Before returns the courses passed strictly before semester i.
func (h History) Before(i int) map[string]domain.Grade {
	if i <= 0 || i-1 >= len(h) {
		return map[string]domain.Grade{}
	}
	return h[i-1]
}

// Through returns the courses passed in semesters 0..i inclusive.
func (h History) Through(i int) map[string]domain.Grade {
	if i < 0 || i >= len(h) {
		return map[string]domain.Grade{}
	}
	return h[i]
}
