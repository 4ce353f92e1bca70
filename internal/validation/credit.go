package validation

import (
	"fmt"

	"course-validator/internal/domain"
)

// CreditPolicy holds per-semester credit thresholds.
type CreditPolicy struct {
	SummerMax  int
	RegularMax int
}

func DefaultCreditPolicy() CreditPolicy {
	return CreditPolicy{SummerMax: 9, RegularMax: 22}
}

// CreditCheck is the outcome of a credit-limit check. Valid is always true:
// an overload is a notice, never a failure.
type CreditCheck struct {
	Valid    bool
	Exceeded bool
	Reason   string
}

// CheckCreditLimit compares the caller-supplied total with the policy.
func CheckCreditLimit(p CreditPolicy, s domain.Semester) CreditCheck {
	if s.Type == domain.SemesterSummer {
		if s.TotalCredits > p.SummerMax {
			return CreditCheck{Valid: true, Exceeded: true, Reason: fmt.Sprintf(
				"NOTICE: Exceeds typical %d credits for summer (registered: %d)", p.SummerMax, s.TotalCredits)}
		}
	} else if s.TotalCredits > p.RegularMax {
		return CreditCheck{Valid: true, Exceeded: true, Reason: fmt.Sprintf(
			"NOTICE: Exceeds typical %d credits for regular semester (registered: %d)", p.RegularMax, s.TotalCredits)}
	}
	return CreditCheck{Valid: true, Reason: fmt.Sprintf("Credit limit valid: %d credits", s.TotalCredits)}
}
