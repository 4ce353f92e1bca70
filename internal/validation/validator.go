package validation

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"course-validator/internal/domain"
)

var ErrNilCatalog = errors.New("validation: catalog is required")

// Validator runs the validation engine against one catalog. It keeps no state
// between runs, so a single Validator may serve concurrent callers.
type Validator struct {
	catalog   *domain.Catalog
	log       zerolog.Logger
	policy    CreditPolicy
	maxPasses int
}

type Option func(*Validator)

func WithLogger(l zerolog.Logger) Option {
	return func(v *Validator) { v.log = l }
}

// WithCreditPolicy overrides the credit limits; non-positive limits keep
// the default.
func WithCreditPolicy(p CreditPolicy) Option {
	return func(v *Validator) {
		if p.SummerMax > 0 {
			v.policy.SummerMax = p.SummerMax
		}
		if p.RegularMax > 0 {
			v.policy.RegularMax = p.RegularMax
		}
	}
}

func WithMaxPasses(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.maxPasses = n
		}
	}
}

func New(catalog *domain.Catalog, opts ...Option) (*Validator, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}
	v := &Validator{
		catalog:   catalog,
		log:       zerolog.Nop(),
		policy:    DefaultCreditPolicy(),
		maxPasses: DefaultMaxPasses,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// UnknownCourse is a registration whose code is missing from the catalog.
type UnknownCourse struct {
	SemesterIndex int
	Semester      string
	Code          string
	Name          string
}

// Report is the output of one run. Transcript is an owned copy of the input.
type Report struct {
	Transcript  domain.Transcript
	History     History
	Results     []domain.ValidationResult
	Unknown     []UnknownCourse
	Passes      int
	Converged   bool
	Diagnostics []string
}

// Validate builds history, evaluates every registration in order, propagates
// invalidation and returns a fresh report. The input transcript is untouched.
func (v *Validator) Validate(in domain.Transcript) (*Report, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t := in.Clone()
	h := BuildHistory(t.Semesters)

	var results []domain.ValidationResult
	var unknown []UnknownCourse

	for i, sem := range t.Semesters {
		if cc := CheckCreditLimit(v.policy, sem); cc.Exceeded {
			results = append(results, domain.ValidationResult{
				SemesterIndex:     i,
				RegistrationIndex: -1,
				CourseCode:        domain.CreditLimitCode,
				CourseName:        "Credit Limit Validation",
				IsValid:           cc.Valid,
				Reason:            cc.Reason,
				Kind:              domain.KindCreditLimit,
			})
		}

		for j, reg := range sem.Registrations {
			if _, ok := v.catalog.Lookup(reg.Code); !ok {
				unknown = append(unknown, UnknownCourse{SemesterIndex: i, Semester: sem.Label(), Code: reg.Code, Name: reg.Name})
			}
			if !reg.Grade.IsKnown() {
				v.log.Warn().
					Str("student", t.Student.ID).
					Str("course", reg.Code).
					Str("grade", string(reg.Grade)).
					Msg("unrecognized grade excluded from GPA")
			}
			ok, reason := ValidateCourse(v.catalog, reg, i, t, h, results)
			v.log.Debug().
				Str("course", reg.Code).
				Str("semester", sem.Label()).
				Bool("valid", ok).
				Msg(reason)
			results = append(results, domain.ValidationResult{
				SemesterIndex:     i,
				RegistrationIndex: j,
				CourseCode:        reg.Code,
				CourseName:        reg.Name,
				Grade:             reg.Grade,
				IsValid:           ok,
				Reason:            reason,
				Kind:              domain.KindPrerequisite,
			})
		}
	}

	out := Propagate(v.catalog, t, results, v.maxPasses)
	rep := &Report{
		Transcript: t,
		History:    h,
		Results:    out.Results,
		Unknown:    unknown,
		Passes:     out.Passes,
		Converged:  out.Converged,
	}
	if !out.Converged {
		msg := fmt.Sprintf("invalidation propagation did not converge after %d passes", out.Passes)
		rep.Diagnostics = append(rep.Diagnostics, msg)
		v.log.Warn().Str("student", t.Student.ID).Int("passes", out.Passes).Msg(msg)
	}
	return rep, nil
}

// ResultFor returns the prerequisite result of registration reg in semester sem.
func (r *Report) ResultFor(sem, reg int) (domain.ValidationResult, bool) {
	for _, res := range r.Results {
		if !res.IsCreditLimit() && res.SemesterIndex == sem && res.RegistrationIndex == reg {
			return res, true
		}
	}
	return domain.ValidationResult{}, false
}

// Invalid returns the invalid prerequisite results in order.
func (r *Report) Invalid() []domain.ValidationResult {
	var out []domain.ValidationResult
	for _, res := range r.Results {
		if !res.IsCreditLimit() && !res.IsValid {
			out = append(out, res)
		}
	}
	return out
}

func (r *Report) CreditNotices() []domain.ValidationResult {
	var out []domain.ValidationResult
	for _, res := range r.Results {
		if res.IsCreditLimit() {
			out = append(out, res)
		}
	}
	return out
}

// Registrations counts prerequisite results, one per registration.
func (r *Report) Registrations() int {
	n := 0
	for _, res := range r.Results {
		if !res.IsCreditLimit() {
			n++
		}
	}
	return n
}

func (r *Report) GPASlices() []GPASlice {
	return GPASlices(r.Transcript, r.Results)
}

// Standing is derived from the overall cumulative GPA through the last semester.
func (r *Report) Standing() Standing {
	n := len(r.Transcript.Semesters)
	if n == 0 {
		return StandingUnknown
	}
	return StandingFor(CumulativeGPA(r.Transcript, n-1))
}
