package mappers

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

/*
Catalog document (JSON or YAML):

{
  "industrial_engineering_courses": [
    {"code": "IE201", "name": "...", "credits": 3,
     "prerequisites": ["IE101"],
     "prerequisite_groups": [{"courses": ["IE101"], "concurrent_allowed": false}]}
  ],
  "other_related_courses": [...],
  "gen_ed_courses": {"language": [...], "humanities": [...]},
  "technical_electives": [...]
}
*/

type CatalogDocument struct {
	IECourses          []CourseRecord            `json:"industrial_engineering_courses" yaml:"industrial_engineering_courses"`
	OtherCourses       []CourseRecord            `json:"other_related_courses" yaml:"other_related_courses"`
	GenEdCourses       map[string][]CourseRecord `json:"gen_ed_courses" yaml:"gen_ed_courses"`
	TechnicalElectives []CourseRecord            `json:"technical_electives" yaml:"technical_electives"`
}

// CourseRecord uses pointers for the required fields so a missing value can
// be told apart from a zero one.
type CourseRecord struct {
	Code               *string       `json:"code" yaml:"code"`
	Name               *string       `json:"name" yaml:"name"`
	Credits            *int          `json:"credits" yaml:"credits"`
	Prerequisites      []string      `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
	PrerequisiteGroups []GroupRecord `json:"prerequisite_groups,omitempty" yaml:"prerequisite_groups,omitempty"`
}

type GroupRecord struct {
	Courses           []string `json:"courses" yaml:"courses"`
	ConcurrentAllowed bool     `json:"concurrent_allowed" yaml:"concurrent_allowed"`
}

/*
Transcript document:

{
  "student_info": {"id": "...", "name": "...", "field_of_study": "...", "date_admission": "..."},
  "semesters": [
    {"semester": "First 2022", "semester_type": "First", "year": "2022",
     "courses": [{"code": "IE101", "name": "...", "grade": "A", "credits": 3}],
     "total_credits": 18}
  ]
}
*/

type TranscriptDocument struct {
	StudentInfo StudentRecord    `json:"student_info" yaml:"student_info"`
	Semesters   []SemesterRecord `json:"semesters" yaml:"semesters"`
}

type StudentRecord struct {
	ID            FlexString `json:"id" yaml:"id"`
	Name          string     `json:"name" yaml:"name"`
	FieldOfStudy  string     `json:"field_of_study" yaml:"field_of_study"`
	DateAdmission string     `json:"date_admission" yaml:"date_admission"`
}

type SemesterRecord struct {
	Semester     string               `json:"semester" yaml:"semester"`
	SemesterType string               `json:"semester_type" yaml:"semester_type"`
	Year         FlexString           `json:"year" yaml:"year"`
	Courses      []RegistrationRecord `json:"courses" yaml:"courses"`
	TotalCredits *int                 `json:"total_credits,omitempty" yaml:"total_credits,omitempty"`
}

type RegistrationRecord struct {
	Code    string `json:"code" yaml:"code"`
	Name    string `json:"name" yaml:"name"`
	Grade   string `json:"grade" yaml:"grade"`
	Credits int    `json:"credits" yaml:"credits"`
}

// FlexString accepts either a string or a number ("2022" or 2022).
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f *FlexString) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*f = ""
		return nil
	}
	*f = FlexString(strings.TrimSpace(node.Value))
	return nil
}

func (f FlexString) String() string { return string(f) }

