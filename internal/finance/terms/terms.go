// Package terms resolves payment-term codes into credit day counts and due
// dates. Resolution never fails: unknown or missing codes silently fall
// back to the 30-day default.
package terms

import (
	"time"

	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// DefaultCreditDays is applied whenever a payment term is missing or
// unrecognized. This includes cash terms ("contado", "efectivo"): callers
// that must not extend credit to cash sales filter them out with
// IsCashTerm before resolving a due date.
const DefaultCreditDays = 30

var creditDaysByTerm = map[string]int{
	"credit_15": 15,
	"credit_30": 30,
	"credit_60": 60,
	"credit_90": 90,
}

var cashTerms = map[string]bool{
	"contado":  true,
	"efectivo": true,
}

// CreditDays maps a payment-term code to a number of credit days.
func CreditDays(term string) int {
	if days, ok := creditDaysByTerm[shared.FoldText(term)]; ok {
		return days
	}
	return DefaultCreditDays
}

// ResolveDueDate returns the due date for a document issued on origin
// under the given payment term.
func ResolveDueDate(origin time.Time, term string) time.Time {
	return origin.AddDate(0, 0, CreditDays(term))
}

// IsCashTerm reports whether the term means immediate payment.
func IsCashTerm(term string) bool {
	return cashTerms[shared.FoldText(term)]
}
