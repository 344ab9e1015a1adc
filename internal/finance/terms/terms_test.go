package terms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreditDaysKnownCodes(t *testing.T) {
	require.Equal(t, 15, CreditDays("credit_15"))
	require.Equal(t, 30, CreditDays("credit_30"))
	require.Equal(t, 60, CreditDays("credit_60"))
	require.Equal(t, 90, CreditDays("credit_90"))
}

func TestCreditDaysFallsBackTo30(t *testing.T) {
	require.Equal(t, 30, CreditDays(""))
	require.Equal(t, 30, CreditDays("net_45"))
	// Cash terms also resolve to the 30-day default; excluding cash sales
	// from credit exposure is the caller's job, not the resolver's.
	require.Equal(t, 30, CreditDays("contado"))
	require.Equal(t, 30, CreditDays("efectivo"))
}

func TestCreditDaysFoldsCaseAndAccents(t *testing.T) {
	require.Equal(t, 60, CreditDays("CREDIT_60"))
	require.Equal(t, 60, CreditDays(" credit_60 "))
}

func TestResolveDueDate(t *testing.T) {
	origin := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, origin.AddDate(0, 0, 60), ResolveDueDate(origin, "credit_60"))
	require.Equal(t, origin.AddDate(0, 0, 30), ResolveDueDate(origin, "whatever"))
}

func TestIsCashTerm(t *testing.T) {
	require.True(t, IsCashTerm("contado"))
	require.True(t, IsCashTerm("Efectivo"))
	require.True(t, IsCashTerm("CONTADO"))
	require.False(t, IsCashTerm("credit_30"))
	require.False(t, IsCashTerm(""))
}
