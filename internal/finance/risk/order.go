package risk

import (
	"fmt"

	"github.com/meridian-erp/meridian-erp/internal/finance"
)

// customerActiveStatus is the literal status value the customer screens
// write for sellable customers.
const customerActiveStatus = "Activo"

// OrderCheck is the gate decision for a proposed sales order.
type OrderCheck struct {
	Allowed          bool     `json:"allowed"`
	RequiresApproval bool     `json:"requiresApproval"`
	Reasons          []string `json:"reasons,omitempty"`
}

// ValidateOrder applies the commercial rules checked before a sales order
// is accepted: the customer must be active, must not sit in the blocked
// tier, and a credit order must fit inside the remaining credit limit
// given the debt already outstanding.
func ValidateOrder(customer finance.Customer, assessment Assessment, orderTotal float64, creditOrder bool) OrderCheck {
	check := OrderCheck{RequiresApproval: assessment.RequiresApproval}

	if customer.Status != "" && customer.Status != customerActiveStatus {
		check.Reasons = append(check.Reasons, "customer is not active")
	}
	if !assessment.CanSell {
		check.Reasons = append(check.Reasons, fmt.Sprintf("customer risk tier %s blocks new sales", assessment.Tier))
	}
	if creditOrder && assessment.OutstandingDebt+orderTotal > customer.CreditLimit {
		check.Reasons = append(check.Reasons, fmt.Sprintf(
			"credit limit exceeded: outstanding %.2f plus order %.2f is over limit %.2f",
			assessment.OutstandingDebt, orderTotal, customer.CreditLimit))
	}

	check.Allowed = len(check.Reasons) == 0
	return check
}
