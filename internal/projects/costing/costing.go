// Package costing rolls project cost entries and resource-time allocations
// into profitability figures. All computation is pure and clock-free.
package costing

import "time"

// Project carries the budgeted revenue the rollup nets costs against.
type Project struct {
	ID              string
	Name            string
	ClientName      string
	BudgetedRevenue float64
}

// CostEntry is a direct cost booked against a project.
type CostEntry struct {
	ID        string
	ProjectID string
	Category  string
	Amount    float64
	Date      time.Time
}

// ResourceAllocation assigns a person's time to a project at a cost rate.
type ResourceAllocation struct {
	ID        string
	ProjectID string
	// TotalCost, when present, wins over the hourly computation, even
	// when it is present and zero. The pointer makes "absent" distinct
	// from "zero": a falsy-coalescing shortcut here would silently
	// reprice an allocation deliberately recorded at no cost.
	TotalCost      *float64
	HourlyCost     float64
	HoursAllocated float64
}

// Profitability is the derived margin view of one project.
type Profitability struct {
	ProjectID       string  `json:"projectId"`
	Name            string  `json:"name,omitempty"`
	BudgetedRevenue float64 `json:"budgetedRevenue"`
	DirectCosts     float64 `json:"directCosts"`
	ResourceCosts   float64 `json:"resourceCosts"`
	TotalCost       float64 `json:"totalCost"`
	Profit          float64 `json:"profit"`
	MarginPct       float64 `json:"marginPct"`
	CostSharePct    float64 `json:"costSharePct"`
	Profitable      bool    `json:"profitable"`
}

// PortfolioSummary aggregates every project's figures.
type PortfolioSummary struct {
	TotalRevenue    float64         `json:"totalRevenue"`
	TotalCost       float64         `json:"totalCost"`
	TotalProfit     float64         `json:"totalProfit"`
	MarginPct       float64         `json:"marginPct"`
	ProjectCount    int             `json:"projectCount"`
	ProfitableCount int             `json:"profitableCount"`
	LossCount       int             `json:"lossCount"`
	Projects        []Profitability `json:"projects"`
}

// RollUp nets a project's direct and resource costs against its budgeted
// revenue. Zero or negative budgeted revenue yields 0 percentages, never a
// division error.
func RollUp(projectID string, entries []CostEntry, allocations []ResourceAllocation, budgetedRevenue float64) Profitability {
	var direct float64
	for _, entry := range entries {
		if entry.ProjectID == projectID {
			direct += entry.Amount
		}
	}

	var resource float64
	for _, alloc := range allocations {
		if alloc.ProjectID != projectID {
			continue
		}
		if alloc.TotalCost != nil {
			resource += *alloc.TotalCost
		} else {
			resource += alloc.HourlyCost * alloc.HoursAllocated
		}
	}

	p := Profitability{
		ProjectID:       projectID,
		BudgetedRevenue: budgetedRevenue,
		DirectCosts:     direct,
		ResourceCosts:   resource,
		TotalCost:       direct + resource,
	}
	p.Profit = budgetedRevenue - p.TotalCost
	if budgetedRevenue > 0 {
		p.MarginPct = p.Profit / budgetedRevenue * 100
		p.CostSharePct = p.TotalCost / budgetedRevenue * 100
	}
	// Break-even counts as profitable.
	p.Profitable = p.Profit >= 0
	return p
}

// RollUpAll evaluates every project, no early exit, and tallies the
// profitable and lossy counts. The two counts always add up to the number
// of projects.
func RollUpAll(projects []Project, entries []CostEntry, allocations []ResourceAllocation) PortfolioSummary {
	summary := PortfolioSummary{Projects: make([]Profitability, 0, len(projects))}
	for _, project := range projects {
		p := RollUp(project.ID, entries, allocations, project.BudgetedRevenue)
		p.Name = project.Name
		summary.Projects = append(summary.Projects, p)

		summary.ProjectCount++
		summary.TotalRevenue += p.BudgetedRevenue
		summary.TotalCost += p.TotalCost
		summary.TotalProfit += p.Profit
		if p.Profitable {
			summary.ProfitableCount++
		} else {
			summary.LossCount++
		}
	}
	if summary.TotalRevenue > 0 {
		summary.MarginPct = summary.TotalProfit / summary.TotalRevenue * 100
	}
	return summary
}
