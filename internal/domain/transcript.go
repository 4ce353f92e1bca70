package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedTranscript is returned when a transcript cannot be validated.
var ErrMalformedTranscript = errors.New("malformed transcript")

type SemesterType string

const (
	SemesterFirst  SemesterType = "First"
	SemesterSecond SemesterType = "Second"
	SemesterSummer SemesterType = "Summer"
)

type StudentInfo struct {
	ID            string
	Name          string
	FieldOfStudy  string
	DateAdmission string
}

type Registration struct {
	Code    string
	Name    string
	Grade   Grade
	Credits int
}

// Semester holds registrations in the order they were recorded. TotalCredits
// is supplied by the caller (credits of registrations not graded W/N).
type Semester struct {
	Index         int
	Type          SemesterType
	Year          string
	Registrations []Registration
	TotalCredits  int
}

// Label is the display name, e.g. "First 2023".
func (s Semester) Label() string {
	label := strings.TrimSpace(string(s.Type) + " " + s.Year)
	if label == "" {
		return fmt.Sprintf("Semester %d", s.Index+1)
	}
	return label
}

// Has reports whether code is registered in this semester.
func (s Semester) Has(code string) bool {
	for _, r := range s.Registrations {
		if r.Code == code {
			return true
		}
	}
	return false
}

// HasGrade reports whether code is registered in this semester with grade g.
func (s Semester) HasGrade(code string, g Grade) bool {
	for _, r := range s.Registrations {
		if r.Code == code && r.Grade == g {
			return true
		}
	}
	return false
}

// Transcript is the ordered list of semesters. Order is authoritative.
type Transcript struct {
	Student   StudentInfo
	Semesters []Semester
}

// Validate checks the structure the engine relies on.
func (t Transcript) Validate() error {
	for i, s := range t.Semesters {
		if s.Index != i {
			return fmt.Errorf("%w: semester %d has index %d", ErrMalformedTranscript, i, s.Index)
		}
		for j, r := range s.Registrations {
			if strings.TrimSpace(r.Code) == "" {
				return fmt.Errorf("%w: semester %d registration %d has no course code", ErrMalformedTranscript, i, j)
			}
			if r.Credits < 0 {
				return fmt.Errorf("%w: semester %d course %s has negative credits", ErrMalformedTranscript, i, r.Code)
			}
		}
	}
	return nil
}

// Clone returns a deep copy so callers' slices are never aliased.
func (t Transcript) Clone() Transcript {
	out := Transcript{Student: t.Student, Semesters: make([]Semester, len(t.Semesters))}
	for i, s := range t.Semesters {
		s.Registrations = append([]Registration(nil), s.Registrations...)
		out.Semesters[i] = s
	}
	return out
}
