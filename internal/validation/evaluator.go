package validation

import (
	"fmt"
	"strings"

	"course-validator/internal/domain"
)

// ValidateCourse decides whether reg, taken in semester semesterIndex, had its
// prerequisites satisfied. soFar must hold the results produced earlier in the
// same run, in order: later registrations of a semester depend on the verdicts
// of earlier ones taken concurrently.
func ValidateCourse(
	catalog *domain.Catalog,
	reg domain.Registration,
	semesterIndex int,
	t domain.Transcript,
	h History,
	soFar []domain.ValidationResult,
) (bool, string) {
	if semesterIndex < 0 || semesterIndex >= len(t.Semesters) {
		return false, fmt.Sprintf("Semester index %d is outside the transcript (%d semesters)", semesterIndex, len(t.Semesters))
	}

	switch reg.Grade {
	case domain.GradeW:
		return true, "Course was withdrawn"
	case domain.GradeN:
		return true, "Course not graded yet"
	}

	entry, ok := catalog.Lookup(reg.Code)
	if !ok {
		return true, fmt.Sprintf("Course %s not found in course data", reg.Code)
	}

	sem := t.Semesters[semesterIndex]
	passed := h.Before(semesterIndex)
	invalid := invalidInSemester(soFar, semesterIndex)

	if entry.HasGroups() {
		return checkGroups(entry.PrerequisiteGroups, passed, sem, invalid)
	}

	if len(entry.Prerequisites) == 0 {
		return true, "No prerequisites required"
	}

	for _, p := range entry.Prerequisites {
		if _, ok := passed[p]; ok {
			continue
		}
		if sem.HasGrade(p, domain.GradeW) {
			return false, fmt.Sprintf("Prerequisite %s was withdrawn (W) in this semester", p)
		}
		if sem.Has(p) {
			if invalid[p] {
				return false, fmt.Sprintf("Prerequisite %s is invalid in current semester", p)
			}
			if gradedBefore(t, p, semesterIndex, domain.GradeF) {
				continue
			}
			if gradedBefore(t, p, semesterIndex, domain.GradeW) {
				return false, fmt.Sprintf("Prerequisite %s withdrawn before - not eligible for concurrent registration", p)
			}
			return false, fmt.Sprintf("Prerequisite %s not satisfied for concurrent registration", p)
		}
		return false, fmt.Sprintf("Prerequisite %s not satisfied and not eligible for concurrent registration", p)
	}
	return true, "All prerequisites satisfied or eligible for concurrent registration"
}

type groupCheck struct {
	index   int
	courses []string
	unmet   []string
}

func (g groupCheck) satisfied() bool { return len(g.unmet) == 0 }

func checkGroups(groups []domain.PrerequisiteGroup, passed map[string]domain.Grade, sem domain.Semester, invalid map[string]bool) (bool, string) {
	var closest *groupCheck
	for i, g := range groups {
		gc := checkGroup(i, g, passed, sem, invalid)
		if gc.satisfied() {
			if len(g.Courses) == 0 {
				return true, fmt.Sprintf("Prerequisite group %d satisfied: no prerequisites required", i+1)
			}
			return true, fmt.Sprintf("Prerequisite group %d satisfied", i+1)
		}
		if closest == nil || len(gc.unmet) < len(closest.unmet) {
			c := gc
			closest = &c
		}
	}
	// groups is non-empty here, so closest is set.
	return false, fmt.Sprintf("No prerequisite groups are satisfied; closest is group %d (%s): %s",
		closest.index+1, strings.Join(closest.courses, ", "), strings.Join(closest.unmet, "; "))
}

func checkGroup(index int, g domain.PrerequisiteGroup, passed map[string]domain.Grade, sem domain.Semester, invalid map[string]bool) groupCheck {
	gc := groupCheck{index: index, courses: g.Courses}
	for _, p := range g.Courses {
		if _, ok := passed[p]; ok {
			continue
		}
		if g.ConcurrentAllowed && sem.Has(p) {
			if invalid[p] {
				gc.unmet = append(gc.unmet, p+" is invalid in current semester")
			}
			continue
		}
		if g.ConcurrentAllowed {
			gc.unmet = append(gc.unmet, p+" not passed before and not taking concurrently")
		} else {
			gc.unmet = append(gc.unmet, p+" not passed before")
		}
	}
	return gc
}

// invalidInSemester collects the course codes already judged invalid in the
// given semester. Credit-limit results never count.
func invalidInSemester(results []domain.ValidationResult, semesterIndex int) map[string]bool {
	out := map[string]bool{}
	for _, r := range results {
		if r.IsCreditLimit() || r.SemesterIndex != semesterIndex || r.IsValid {
			continue
		}
		out[r.CourseCode] = true
	}
	return out
}

// gradedBefore reports whether code received grade g in any semester strictly
// before semesterIndex.
func gradedBefore(t domain.Transcript, code string, semesterIndex int, g domain.Grade) bool {
	for i := 0; i < semesterIndex && i < len(t.Semesters); i++ {
		if t.Semesters[i].HasGrade(code, g) {
			return true
		}
	}
	return false
}
