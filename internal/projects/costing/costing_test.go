package costing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestRollUpScenario(t *testing.T) {
	entries := []CostEntry{
		{ID: "c1", ProjectID: "p1", Amount: 3000},
		{ID: "c2", ProjectID: "other", Amount: 999},
	}
	allocations := []ResourceAllocation{
		{ID: "r1", ProjectID: "p1", HourlyCost: 20, HoursAllocated: 100},
	}

	p := RollUp("p1", entries, allocations, 10000)
	require.Equal(t, 3000.0, p.DirectCosts)
	require.Equal(t, 2000.0, p.ResourceCosts)
	require.Equal(t, 5000.0, p.TotalCost)
	require.Equal(t, 5000.0, p.Profit)
	require.Equal(t, 50.0, p.MarginPct)
	require.Equal(t, 50.0, p.CostSharePct)
	require.True(t, p.Profitable)
}

func TestRollUpPresentZeroTotalCostIsNotFallback(t *testing.T) {
	allocations := []ResourceAllocation{
		{ID: "r1", ProjectID: "p1", TotalCost: f(0), HourlyCost: 20, HoursAllocated: 100},
	}
	p := RollUp("p1", nil, allocations, 1000)
	require.Equal(t, 0.0, p.ResourceCosts)
}

func TestRollUpAbsentTotalCostFallsBackToHourly(t *testing.T) {
	allocations := []ResourceAllocation{
		{ID: "r1", ProjectID: "p1", HourlyCost: 15, HoursAllocated: 10},
		{ID: "r2", ProjectID: "p1", TotalCost: f(500)},
	}
	p := RollUp("p1", nil, allocations, 1000)
	require.Equal(t, 650.0, p.ResourceCosts)
}

func TestRollUpZeroRevenueGuards(t *testing.T) {
	entries := []CostEntry{{ID: "c1", ProjectID: "p1", Amount: 100}}
	p := RollUp("p1", entries, nil, 0)
	require.Equal(t, -100.0, p.Profit)
	require.Equal(t, 0.0, p.MarginPct)
	require.Equal(t, 0.0, p.CostSharePct)
	require.False(t, p.Profitable)
}

func TestBreakEvenCountsAsProfitable(t *testing.T) {
	entries := []CostEntry{{ID: "c1", ProjectID: "p1", Amount: 1000}}
	p := RollUp("p1", entries, nil, 1000)
	require.Equal(t, 0.0, p.Profit)
	require.True(t, p.Profitable)
}

func TestRollUpAllCountsPartitionProjects(t *testing.T) {
	projects := []Project{
		{ID: "p1", Name: "Alpha", BudgetedRevenue: 1000},
		{ID: "p2", Name: "Beta", BudgetedRevenue: 100},
		{ID: "p3", Name: "Gamma", BudgetedRevenue: 500},
	}
	entries := []CostEntry{
		{ID: "c1", ProjectID: "p1", Amount: 400},
		{ID: "c2", ProjectID: "p2", Amount: 300},
		{ID: "c3", ProjectID: "p3", Amount: 500},
	}

	s := RollUpAll(projects, entries, nil)
	require.Equal(t, 3, s.ProjectCount)
	require.Equal(t, s.ProjectCount, s.ProfitableCount+s.LossCount)
	require.Equal(t, 2, s.ProfitableCount) // p3 breaks even and counts as profitable
	require.Equal(t, 1, s.LossCount)
	require.Equal(t, 1600.0, s.TotalRevenue)
	require.Equal(t, 1200.0, s.TotalCost)
	require.Equal(t, 400.0, s.TotalProfit)
	require.Equal(t, 25.0, s.MarginPct)
	require.Len(t, s.Projects, 3)
}

func TestRollUpAllEmptyPortfolio(t *testing.T) {
	s := RollUpAll(nil, nil, nil)
	require.Equal(t, 0, s.ProjectCount)
	require.Equal(t, 0.0, s.MarginPct)
	require.Empty(t, s.Projects)
}

func TestRollUpIsIdempotent(t *testing.T) {
	entries := []CostEntry{{ID: "c1", ProjectID: "p1", Amount: 250}}
	allocations := []ResourceAllocation{{ID: "r1", ProjectID: "p1", HourlyCost: 10, HoursAllocated: 8}}
	require.Equal(t, RollUp("p1", entries, allocations, 900), RollUp("p1", entries, allocations, 900))
}
