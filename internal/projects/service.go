// Package projects serves the cost-control screen: per-project and
// portfolio profitability rollups.
package projects

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/meridian-erp/meridian-erp/internal/platform/cache"
	"github.com/meridian-erp/meridian-erp/internal/projects/costing"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Store lists the collections the cost rollups consume.
type Store interface {
	GetProject(ctx context.Context, tenantID, projectID string) (costing.Project, error)
	ListProjects(ctx context.Context, tenantID string) ([]costing.Project, error)
	ListCostEntries(ctx context.Context, tenantID string) ([]costing.CostEntry, error)
	ListResourceAllocations(ctx context.Context, tenantID string) ([]costing.ResourceAllocation, error)
}

// Service computes project profitability.
type Service struct {
	store Store
	cache *cache.Cache
}

// NewService builds a Service instance.
func NewService(store Store, cache *cache.Cache) *Service {
	return &Service{store: store, cache: cache}
}

// ProjectCosting rolls up one project.
func (s *Service) ProjectCosting(ctx context.Context, tenantID, projectID string) (costing.Profitability, error) {
	if tenantID == "" {
		return costing.Profitability{}, shared.ErrTenantMissing
	}

	var (
		project     costing.Project
		entries     []costing.CostEntry
		allocations []costing.ResourceAllocation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.store.GetProject(gctx, tenantID, projectID)
		if errors.Is(err, pgx.ErrNoRows) {
			return shared.ErrNotFound
		}
		if err != nil {
			return err
		}
		project = p
		return nil
	})
	g.Go(func() error {
		return s.fetch(gctx, "projects:costs:"+tenantID, &entries, func(ctx context.Context) (interface{}, error) {
			return s.store.ListCostEntries(ctx, tenantID)
		})
	})
	g.Go(func() error {
		return s.fetch(gctx, "projects:allocations:"+tenantID, &allocations, func(ctx context.Context) (interface{}, error) {
			return s.store.ListResourceAllocations(ctx, tenantID)
		})
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return costing.Profitability{}, err
		}
		return costing.Profitability{}, fmt.Errorf("projects: load collections: %w", err)
	}

	p := costing.RollUp(project.ID, entries, allocations, project.BudgetedRevenue)
	p.Name = project.Name
	return p, nil
}

// PortfolioCosting rolls up every project of a tenant.
func (s *Service) PortfolioCosting(ctx context.Context, tenantID string) (costing.PortfolioSummary, error) {
	if tenantID == "" {
		return costing.PortfolioSummary{}, shared.ErrTenantMissing
	}

	var (
		projects    []costing.Project
		entries     []costing.CostEntry
		allocations []costing.ResourceAllocation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.fetch(gctx, "projects:all:"+tenantID, &projects, func(ctx context.Context) (interface{}, error) {
			return s.store.ListProjects(ctx, tenantID)
		})
	})
	g.Go(func() error {
		return s.fetch(gctx, "projects:costs:"+tenantID, &entries, func(ctx context.Context) (interface{}, error) {
			return s.store.ListCostEntries(ctx, tenantID)
		})
	})
	g.Go(func() error {
		return s.fetch(gctx, "projects:allocations:"+tenantID, &allocations, func(ctx context.Context) (interface{}, error) {
			return s.store.ListResourceAllocations(ctx, tenantID)
		})
	})
	if err := g.Wait(); err != nil {
		return costing.PortfolioSummary{}, fmt.Errorf("projects: load collections: %w", err)
	}

	return costing.RollUpAll(projects, entries, allocations), nil
}

func (s *Service) fetch(ctx context.Context, keyBase string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	key, err := s.cache.BuildKey(ctx, keyBase)
	if err != nil {
		return err
	}
	return s.cache.FetchJSON(ctx, key, dest, loader)
}
