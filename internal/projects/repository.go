package projects

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-erp/meridian-erp/internal/projects/costing"
)

// Repository reads the per-tenant project collections. total_cost on an
// allocation is nullable on purpose: absent means "price from the hourly
// rate", a stored zero means the allocation really costs nothing.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListProjects returns a tenant's projects.
func (r *Repository) ListProjects(ctx context.Context, tenantID string) ([]costing.Project, error) {
	const query = `
		SELECT id, COALESCE(name, ''), COALESCE(client_name, ''), COALESCE(budget, 0)
		FROM projects
		WHERE tenant_id = $1
		ORDER BY name, id`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("projects: list projects: %w", err)
	}
	defer rows.Close()

	var out []costing.Project
	for rows.Next() {
		var p costing.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.ClientName, &p.BudgetedRevenue); err != nil {
			return nil, fmt.Errorf("projects: scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetProject returns one project or pgx.ErrNoRows.
func (r *Repository) GetProject(ctx context.Context, tenantID, projectID string) (costing.Project, error) {
	const query = `
		SELECT id, COALESCE(name, ''), COALESCE(client_name, ''), COALESCE(budget, 0)
		FROM projects
		WHERE tenant_id = $1 AND id = $2`
	var p costing.Project
	err := r.pool.QueryRow(ctx, query, tenantID, projectID).
		Scan(&p.ID, &p.Name, &p.ClientName, &p.BudgetedRevenue)
	if err != nil {
		if err == pgx.ErrNoRows {
			return costing.Project{}, err
		}
		return costing.Project{}, fmt.Errorf("projects: get project: %w", err)
	}
	return p, nil
}

// ListCostEntries returns a tenant's direct cost entries.
func (r *Repository) ListCostEntries(ctx context.Context, tenantID string) ([]costing.CostEntry, error) {
	const query = `
		SELECT id, COALESCE(project_id, ''), COALESCE(category, ''),
		       COALESCE(amount, 0), cost_date
		FROM project_costs
		WHERE tenant_id = $1
		ORDER BY cost_date DESC NULLS LAST, id`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("projects: list cost entries: %w", err)
	}
	defer rows.Close()

	var out []costing.CostEntry
	for rows.Next() {
		var entry costing.CostEntry
		var costDate pgtype.Timestamptz
		if err := rows.Scan(&entry.ID, &entry.ProjectID, &entry.Category, &entry.Amount, &costDate); err != nil {
			return nil, fmt.Errorf("projects: scan cost entry: %w", err)
		}
		if costDate.Valid {
			entry.Date = costDate.Time
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// ListResourceAllocations returns a tenant's resource allocations.
func (r *Repository) ListResourceAllocations(ctx context.Context, tenantID string) ([]costing.ResourceAllocation, error) {
	const query = `
		SELECT id, COALESCE(project_id, ''), total_cost,
		       COALESCE(hourly_cost, 0), COALESCE(hours_allocated, 0)
		FROM resource_allocations
		WHERE tenant_id = $1
		ORDER BY id`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("projects: list resource allocations: %w", err)
	}
	defer rows.Close()

	var out []costing.ResourceAllocation
	for rows.Next() {
		var alloc costing.ResourceAllocation
		var totalCost pgtype.Float8
		if err := rows.Scan(&alloc.ID, &alloc.ProjectID, &totalCost, &alloc.HourlyCost, &alloc.HoursAllocated); err != nil {
			return nil, fmt.Errorf("projects: scan resource allocation: %w", err)
		}
		if totalCost.Valid {
			cost := totalCost.Float64
			alloc.TotalCost = &cost
		}
		out = append(out, alloc)
	}
	return out, rows.Err()
}
