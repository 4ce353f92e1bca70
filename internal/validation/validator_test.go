package validation

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"course-validator/internal/domain"
)

type ValidatorSuite struct {
	suite.Suite
	catalog   *domain.Catalog
	validator *Validator
}

func TestValidatorSuite(t *testing.T) {
	suite.Run(t, new(ValidatorSuite))
}

func (s *ValidatorSuite) SetupTest() {
	cat, err := domain.NewCatalog([]domain.CatalogEntry{
		{Code: "X", Name: "Calculus I", Credits: 3},
		{Code: "Y", Name: "Calculus II", Credits: 3, Prerequisites: []string{"X"}},
		{Code: "A", Name: "Physics I", Credits: 3, Prerequisites: []string{"Z"}},
		{Code: "B", Name: "Physics II", Credits: 3, Prerequisites: []string{"A"}},
		{Code: "C", Name: "Physics III", Credits: 3, Prerequisites: []string{"B"}},
	})
	s.Require().NoError(err)
	s.catalog = cat

	s.validator, err = New(cat)
	s.Require().NoError(err)
}

func (s *ValidatorSuite) TestNew() {
	s.Run("nil catalog returns error", func() {
		_, err := New(nil)
		s.ErrorIs(err, ErrNilCatalog)
	})

	s.Run("options applied", func() {
		v, err := New(s.catalog, WithMaxPasses(3), WithCreditPolicy(CreditPolicy{SummerMax: 1, RegularMax: 2}))
		s.Require().NoError(err)
		s.Equal(3, v.maxPasses)
		s.Equal(2, v.policy.RegularMax)
		s.Same(s.catalog, v.catalog)
	})

	s.Run("non-positive pass cap ignored", func() {
		v, err := New(s.catalog, WithMaxPasses(0))
		s.Require().NoError(err)
		s.Equal(DefaultMaxPasses, v.maxPasses)
	})
}

func (s *ValidatorSuite) TestMalformedTranscript() {
	_, err := s.validator.Validate(domain.Transcript{Semesters: []domain.Semester{{Index: 4}}})
	s.ErrorIs(err, domain.ErrMalformedTranscript)
}

func (s *ValidatorSuite) TestConcurrentRetake() {
	s.Run("retake after failing keeps dependent valid", func() {
		tr := transcriptOf(
			[]domain.Registration{reg("X", domain.GradeF, 3)},
			[]domain.Registration{reg("X", domain.GradeC, 3), reg("Y", domain.GradeB, 3)},
		)
		rep, err := s.validator.Validate(tr)
		s.Require().NoError(err)

		y, ok := rep.ResultFor(1, 1)
		s.Require().True(ok)
		s.True(y.IsValid, y.Reason)
	})

	s.Run("withdrawing the retake invalidates dependent", func() {
		tr := transcriptOf(
			[]domain.Registration{reg("X", domain.GradeF, 3)},
			[]domain.Registration{reg("X", domain.GradeW, 3), reg("Y", domain.GradeB, 3)},
		)
		rep, err := s.validator.Validate(tr)
		s.Require().NoError(err)

		y, _ := rep.ResultFor(1, 1)
		s.False(y.IsValid)
		s.Contains(y.Reason, "withdrawn (W) in this semester")
	})
}

func (s *ValidatorSuite) TestPropagationAndGPA() {
	tr := transcriptOf(
		[]domain.Registration{reg("A", domain.GradeA, 3), reg("X", domain.GradeB, 3)},
		[]domain.Registration{reg("B", domain.GradeC, 3), reg("Y", domain.GradeA, 3), reg("ZZ100", domain.GradeA, 3)},
	)
	rep, err := s.validator.Validate(tr)
	s.Require().NoError(err)

	s.True(rep.Converged)
	s.Empty(rep.Diagnostics)
	s.Equal(5, rep.Registrations())

	invalid := rep.Invalid()
	s.Require().Len(invalid, 2)
	s.Equal("A", invalid[0].CourseCode)
	s.Equal("B", invalid[1].CourseCode)
	s.Contains(invalid[1].Reason, "Prerequisite A is invalid")

	s.Require().Len(rep.Unknown, 1)
	s.Equal("ZZ100", rep.Unknown[0].Code)
	s.Equal("Second 2022", rep.Unknown[0].Semester)

	slices := rep.GPASlices()
	s.Equal(3.5, slices[0].Semester)
	s.Equal(3.0, slices[0].ValidSemester)
	s.Equal(3.33, slices[1].Semester)
	s.Equal(4.0, slices[1].ValidSemester)
	s.Equal(3.4, slices[1].Cumulative)
	s.Equal(3.67, slices[1].ValidCumulative)
	s.Equal(StandingNormal, rep.Standing())
}

func (s *ValidatorSuite) TestCreditNotice() {
	tr := transcriptOf([]domain.Registration{
		reg("X", domain.GradeA, 12), reg("ZZ1", domain.GradeA, 11),
	})
	rep, err := s.validator.Validate(tr)
	s.Require().NoError(err)

	notices := rep.CreditNotices()
	s.Require().Len(notices, 1)
	s.Equal(domain.CreditLimitCode, notices[0].CourseCode)
	s.True(notices[0].IsValid)
	s.Equal(-1, notices[0].RegistrationIndex)
	s.Contains(notices[0].Reason, "registered: 23")
	s.Equal(domain.KindCreditLimit, rep.Results[0].Kind, "credit result precedes the semester's courses")
	s.Empty(rep.Invalid())
}

func (s *ValidatorSuite) TestWithdrawnAndUngradedAlwaysValid() {
	tr := transcriptOf(
		[]domain.Registration{reg("A", domain.GradeB, 3)},
		[]domain.Registration{reg("B", domain.GradeW, 3), reg("C", domain.GradeN, 3), reg("Y", domain.GradeW, 3)},
	)
	rep, err := s.validator.Validate(tr)
	s.Require().NoError(err)

	for _, r := range rep.Results {
		if r.Grade == domain.GradeW || r.Grade == domain.GradeN {
			s.True(r.IsValid, r.CourseCode)
		}
	}
}

func (s *ValidatorSuite) TestUnrecognizedGradeLogged() {
	var buf bytes.Buffer
	v, err := New(s.catalog, WithLogger(zerolog.New(&buf).Level(zerolog.WarnLevel)))
	s.Require().NoError(err)

	rep, err := v.Validate(transcriptOf([]domain.Registration{
		reg("X", domain.GradeA, 3),
		reg("Y", domain.Grade("Q"), 3),
	}))
	s.Require().NoError(err)

	s.Contains(buf.String(), "unrecognized grade excluded from GPA")
	s.Contains(buf.String(), `"grade":"Q"`)
	s.NotContains(buf.String(), `"course":"X"`)
	s.InDelta(4.0, rep.GPASlices()[0].Semester, 0.001)
}

func (s *ValidatorSuite) TestIdempotentAndSideEffectFree() {
	tr := transcriptOf(
		[]domain.Registration{reg("A", domain.GradeB, 3)},
		[]domain.Registration{reg("B", domain.GradeB, 3)},
		[]domain.Registration{reg("C", domain.GradeB, 3)},
	)
	before := tr.Clone()

	first, err := s.validator.Validate(tr)
	s.Require().NoError(err)
	second, err := s.validator.Validate(tr)
	s.Require().NoError(err)

	s.Equal(first.Results, second.Results)
	s.Equal(before, tr)

	first.Transcript.Semesters[0].Registrations[0].Grade = domain.GradeF
	s.Equal(domain.GradeB, tr.Semesters[0].Registrations[0].Grade)
}

func (s *ValidatorSuite) TestNonConvergenceIsDiagnostic() {
	var buf bytes.Buffer
	v, err := New(s.catalog, WithMaxPasses(1), WithLogger(zerolog.New(&buf)))
	s.Require().NoError(err)

	tr := transcriptOf(
		[]domain.Registration{reg("A", domain.GradeB, 3)},
		[]domain.Registration{reg("B", domain.GradeB, 3)},
		[]domain.Registration{reg("C", domain.GradeB, 3)},
	)
	rep, err := v.Validate(tr)
	s.Require().NoError(err)

	s.False(rep.Converged)
	s.Require().Len(rep.Diagnostics, 1)
	s.Contains(rep.Diagnostics[0], "did not converge")
	s.Contains(buf.String(), "did not converge")
}

func (s *ValidatorSuite) TestEmptyTranscript() {
	rep, err := s.validator.Validate(domain.Transcript{})
	s.Require().NoError(err)
	s.Empty(rep.Results)
	s.Equal(StandingUnknown, rep.Standing())
	s.True(rep.Converged)
}
