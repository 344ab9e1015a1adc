// Package risk scores a customer's creditworthiness from their purchase
// history, complaints and credit limit. Scoring is recomputed from scratch
// on every read; an assessment has no lifecycle of its own.
package risk

import (
	"time"

	"github.com/meridian-erp/meridian-erp/internal/finance"
	"github.com/meridian-erp/meridian-erp/internal/finance/terms"
)

// countAllComplaintsRegardlessOfStatus documents a deliberate quirk: the
// assessment field is named "open complaints" but scoring has always
// counted every complaint, resolved or not. Flip this single constant to
// restrict scoring to unresolved complaints once the business signs off.
const countAllComplaintsRegardlessOfStatus = true

// trailingWindowMonths is the look-back window for recent sales volume.
const trailingWindowMonths = 6

// Tier is the coarse credit-risk classification. The tier names are the
// literal values the screens and stored reports already use.
type Tier string

const (
	TierBajo  Tier = "Bajo"
	TierMedio Tier = "Medio"
	TierAlto  Tier = "Alto"
)

// Thresholds for the tier rules, evaluated strictly in order.
const (
	altoComplaintCount  = 2  // more than this many complaints
	altoUtilizationPct  = 90 // or utilization above this
	medioUtilizationPct = 70
)

// Assessment is the derived credit snapshot for one customer.
type Assessment struct {
	CustomerID           string                `json:"customerId"`
	PurchaseHistory      []finance.Transaction `json:"purchaseHistory"`
	OpenComplaints       []finance.Complaint   `json:"openComplaints"`
	OutstandingDebt      float64               `json:"outstandingDebt"`
	TrailingSalesVolume  float64               `json:"trailingSalesVolume"`
	CreditUtilizationPct float64               `json:"creditUtilizationPct"`
	Tier                 Tier                  `json:"riskTier"`
	CanSell              bool                  `json:"canSell"`
	RequiresApproval     bool                  `json:"requiresApproval"`
}

// EvaluateCustomer derives a credit assessment from the customer's matched
// transactions and complaints as of the reference date.
func EvaluateCustomer(customer finance.Customer, transactions []finance.Transaction, complaints []finance.Complaint, today time.Time) Assessment {
	a := Assessment{
		CustomerID:      customer.ID,
		PurchaseHistory: []finance.Transaction{},
		OpenComplaints:  []finance.Complaint{},
	}

	windowStart := today.AddDate(0, -trailingWindowMonths, 0)

	for _, txn := range transactions {
		if !matchesCustomer(txn, customer) {
			continue
		}
		a.PurchaseHistory = append(a.PurchaseHistory, txn)

		if txn.Status == finance.StatusCompleted && !terms.IsCashTerm(txn.PaymentTerm) {
			a.OutstandingDebt += txn.Amount
		}
		if !txn.Date.IsZero() && !txn.Date.Before(windowStart) && !txn.Date.After(today) {
			a.TrailingSalesVolume += txn.Amount
		}
	}

	for _, complaint := range complaints {
		if complaint.CustomerID != customer.ID {
			continue
		}
		if countAllComplaintsRegardlessOfStatus || isOpen(complaint) {
			a.OpenComplaints = append(a.OpenComplaints, complaint)
		}
	}

	if customer.CreditLimit > 0 {
		a.CreditUtilizationPct = a.OutstandingDebt / customer.CreditLimit * 100
	}

	switch {
	case len(a.OpenComplaints) > altoComplaintCount || a.CreditUtilizationPct > altoUtilizationPct:
		a.Tier = TierAlto
		a.CanSell = false
		a.RequiresApproval = true
	case len(a.OpenComplaints) > 0 || a.CreditUtilizationPct > medioUtilizationPct:
		a.Tier = TierMedio
		a.CanSell = true
		a.RequiresApproval = true
	default:
		a.Tier = TierBajo
		a.CanSell = true
		a.RequiresApproval = false
	}
	return a
}

// matchesCustomer pairs a transaction with a customer either by reference
// id or, for older records entered before customer references existed, by
// exact case-sensitive name.
func matchesCustomer(txn finance.Transaction, customer finance.Customer) bool {
	if txn.CounterpartyID != "" && txn.CounterpartyID == customer.ID {
		return true
	}
	return customer.Name != "" && txn.CounterpartyName == customer.Name
}

func isOpen(complaint finance.Complaint) bool {
	return complaint.Status != "Resuelto" && complaint.Status != "Cerrado"
}
