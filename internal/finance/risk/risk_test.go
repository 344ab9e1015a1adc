package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/finance"
)

var today = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

func completedCreditSale(id string, amount float64, daysAgo int) finance.Transaction {
	return finance.Transaction{
		ID:             id,
		CounterpartyID: "c1",
		Date:           today.AddDate(0, 0, -daysAgo),
		Amount:         amount,
		PaymentTerm:    "credit_30",
		Status:         finance.StatusCompleted,
	}
}

func customer(limit float64) finance.Customer {
	return finance.Customer{ID: "c1", Name: "Distribuidora Norte", Status: "Activo", CreditLimit: limit}
}

func TestOutstandingDebtExcludesIncompleteAndCashSales(t *testing.T) {
	txns := []finance.Transaction{
		completedCreditSale("s1", 100, 5),
		{ID: "s2", CounterpartyID: "c1", Date: today, Amount: 200, PaymentTerm: "credit_30", Status: "Pendiente"},
		{ID: "s3", CounterpartyID: "c1", Date: today, Amount: 300, PaymentTerm: "contado", Status: finance.StatusCompleted},
	}

	a := EvaluateCustomer(customer(1000), txns, nil, today)
	require.Equal(t, 100.0, a.OutstandingDebt)
	// All three still belong to the purchase history.
	require.Len(t, a.PurchaseHistory, 3)
}

func TestNameFallbackMatching(t *testing.T) {
	txns := []finance.Transaction{
		{ID: "old", CounterpartyName: "Distribuidora Norte", Date: today, Amount: 50, PaymentTerm: "credit_30", Status: finance.StatusCompleted},
		{ID: "other", CounterpartyName: "distribuidora norte", Date: today, Amount: 70, PaymentTerm: "credit_30", Status: finance.StatusCompleted},
	}

	a := EvaluateCustomer(customer(1000), txns, nil, today)
	// Name fallback is exact and case-sensitive.
	require.Len(t, a.PurchaseHistory, 1)
	require.Equal(t, "old", a.PurchaseHistory[0].ID)
}

func TestTrailingVolumeWindow(t *testing.T) {
	txns := []finance.Transaction{
		completedCreditSale("recent", 100, 30),
		completedCreditSale("edge", 200, 0),
		{ID: "stale", CounterpartyID: "c1", Date: today.AddDate(0, -7, 0), Amount: 400, PaymentTerm: "credit_30", Status: finance.StatusCompleted},
		{ID: "undated", CounterpartyID: "c1", Amount: 800, PaymentTerm: "credit_30", Status: finance.StatusCompleted},
	}

	a := EvaluateCustomer(customer(0), txns, nil, today)
	require.Equal(t, 300.0, a.TrailingSalesVolume)
}

func TestUtilizationGuardedForZeroLimit(t *testing.T) {
	txns := []finance.Transaction{completedCreditSale("s1", 500, 5)}

	a := EvaluateCustomer(customer(0), txns, nil, today)
	require.Equal(t, 0.0, a.CreditUtilizationPct)
	require.Equal(t, TierBajo, a.Tier)
}

func TestHighUtilizationIsAlto(t *testing.T) {
	txns := []finance.Transaction{completedCreditSale("s1", 950, 5)}

	a := EvaluateCustomer(customer(1000), txns, nil, today)
	require.Equal(t, 95.0, a.CreditUtilizationPct)
	require.Equal(t, TierAlto, a.Tier)
	require.False(t, a.CanSell)
	require.True(t, a.RequiresApproval)
}

func TestModerateUtilizationWithComplaintIsMedio(t *testing.T) {
	txns := []finance.Transaction{completedCreditSale("s1", 750, 5)}
	complaints := []finance.Complaint{{ID: "q1", CustomerID: "c1", Status: "Resuelto"}}

	a := EvaluateCustomer(customer(1000), txns, complaints, today)
	require.Equal(t, 75.0, a.CreditUtilizationPct)
	require.Equal(t, TierMedio, a.Tier)
	require.True(t, a.CanSell)
	require.True(t, a.RequiresApproval)
}

func TestAllComplaintsCountRegardlessOfStatus(t *testing.T) {
	complaints := []finance.Complaint{
		{ID: "q1", CustomerID: "c1", Status: "Resuelto"},
		{ID: "q2", CustomerID: "c1", Status: "Cerrado"},
		{ID: "q3", CustomerID: "c1", Status: "Abierto"},
		{ID: "other", CustomerID: "c2", Status: "Abierto"},
	}

	a := EvaluateCustomer(customer(1000), nil, complaints, today)
	require.Len(t, a.OpenComplaints, 3)
	require.Equal(t, TierAlto, a.Tier)
}

func TestTierMonotonicityOverComplaints(t *testing.T) {
	rank := map[Tier]int{TierBajo: 0, TierMedio: 1, TierAlto: 2}
	for _, debt := range []float64{0, 500, 750, 950} {
		txns := []finance.Transaction{completedCreditSale("s1", debt, 5)}
		prev := -1
		for n := 0; n <= 4; n++ {
			complaints := make([]finance.Complaint, n)
			for i := range complaints {
				complaints[i] = finance.Complaint{ID: string(rune('a' + i)), CustomerID: "c1"}
			}
			a := EvaluateCustomer(customer(1000), txns, complaints, today)
			cur := rank[a.Tier]
			require.GreaterOrEqual(t, cur, prev, "tier regressed at %d complaints, debt %.0f", n, debt)
			if n == 1 && debt <= 700 {
				// A first complaint alone never jumps straight to Alto.
				require.NotEqual(t, TierAlto, a.Tier)
			}
			prev = cur
		}
	}
}

func TestEvaluateCustomerIsIdempotent(t *testing.T) {
	txns := []finance.Transaction{completedCreditSale("s1", 750, 5)}
	complaints := []finance.Complaint{{ID: "q1", CustomerID: "c1"}}
	first := EvaluateCustomer(customer(1000), txns, complaints, today)
	second := EvaluateCustomer(customer(1000), txns, complaints, today)
	require.Equal(t, first, second)
}

func TestValidateOrderCreditLimit(t *testing.T) {
	txns := []finance.Transaction{completedCreditSale("s1", 800, 5)}
	a := EvaluateCustomer(customer(1000), txns, nil, today)

	ok := ValidateOrder(customer(1000), a, 100, true)
	require.True(t, ok.Allowed)

	over := ValidateOrder(customer(1000), a, 300, true)
	require.False(t, over.Allowed)
	require.Len(t, over.Reasons, 1)

	// Cash orders are not constrained by the credit limit.
	cash := ValidateOrder(customer(1000), a, 300, false)
	require.True(t, cash.Allowed)
}

func TestValidateOrderBlockedCustomer(t *testing.T) {
	txns := []finance.Transaction{completedCreditSale("s1", 950, 5)}
	a := EvaluateCustomer(customer(1000), txns, nil, today)

	check := ValidateOrder(customer(1000), a, 10, false)
	require.False(t, check.Allowed)
	require.True(t, check.RequiresApproval)
}

func TestValidateOrderInactiveCustomer(t *testing.T) {
	inactive := finance.Customer{ID: "c1", Name: "X", Status: "Suspendido", CreditLimit: 1000}
	a := EvaluateCustomer(inactive, nil, nil, today)

	check := ValidateOrder(inactive, a, 10, false)
	require.False(t, check.Allowed)
}
