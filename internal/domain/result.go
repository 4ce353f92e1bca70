package domain

type ResultKind string

const (
	KindPrerequisite ResultKind = "prerequisite"
	KindCreditLimit  ResultKind = "credit_limit"
)

// CreditLimitCode is the sentinel course code of credit-limit results.
const CreditLimitCode = "CREDIT_LIMIT"

// ValidationResult is one verdict. RegistrationIndex points into the
// semester's registrations and is -1 for credit-limit results.
type ValidationResult struct {
	SemesterIndex     int
	RegistrationIndex int
	CourseCode        string
	CourseName        string
	Grade             Grade
	IsValid           bool
	Reason            string
	Kind              ResultKind
}

func (r ValidationResult) IsCreditLimit() bool {
	return r.Kind == KindCreditLimit
}
