// Package receivables serves the accounts-receivable screen: completed
// credit sales merged with receivable ledger lines, aged with the flat
// 30-day policy the screen has always assumed.
package receivables

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meridian-erp/meridian-erp/internal/finance"
	"github.com/meridian-erp/meridian-erp/internal/finance/aging"
	"github.com/meridian-erp/meridian-erp/internal/finance/exposure"
	"github.com/meridian-erp/meridian-erp/internal/platform/cache"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Store lists the collections the receivables view consumes.
type Store interface {
	ListSales(ctx context.Context, tenantID string) ([]finance.Transaction, error)
	ListLedgerEntries(ctx context.Context, tenantID string) ([]finance.LedgerEntry, error)
	ListCustomers(ctx context.Context, tenantID string) ([]finance.Customer, error)
}

// Service builds the receivable exposure view.
type Service struct {
	store Store
	cache *cache.Cache
}

// NewService builds a Service instance.
func NewService(store Store, cache *cache.Cache) *Service {
	return &Service{store: store, cache: cache}
}

// ListRequest narrows the exposure view. Page 0 disables pagination and
// returns the full list, which is what the screen does by default.
type ListRequest struct {
	Query       string
	Bucket      aging.Bucket
	AsOf        time.Time
	Deduplicate bool
	Page        int
	PerPage     int
}

// ExposureView is what the screen renders: the aged item list plus the
// header card totals. The summary always covers the full filtered list,
// not just the returned page.
type ExposureView struct {
	Items      []exposure.Item    `json:"items"`
	Summary    exposure.Summary   `json:"summary"`
	Pagination *shared.Pagination `json:"pagination,omitempty"`
}

// BuildExposure fetches the tenant's collections concurrently and runs
// the reconciler over them. The engine itself never performs I/O; all
// reads happen here, up front, and the computation is pure.
func (s *Service) BuildExposure(ctx context.Context, tenantID string, req ListRequest) (ExposureView, error) {
	if tenantID == "" {
		return ExposureView{}, shared.ErrTenantMissing
	}
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	var (
		sales     []finance.Transaction
		entries   []finance.LedgerEntry
		customers []finance.Customer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.fetch(gctx, "receivables:sales:"+tenantID, &sales, func(ctx context.Context) (interface{}, error) {
			return s.store.ListSales(ctx, tenantID)
		})
	})
	g.Go(func() error {
		return s.fetch(gctx, "receivables:ledger:"+tenantID, &entries, func(ctx context.Context) (interface{}, error) {
			return s.store.ListLedgerEntries(ctx, tenantID)
		})
	})
	g.Go(func() error {
		return s.fetch(gctx, "receivables:customers:"+tenantID, &customers, func(ctx context.Context) (interface{}, error) {
			return s.store.ListCustomers(ctx, tenantID)
		})
	})
	if err := g.Wait(); err != nil {
		return ExposureView{}, fmt.Errorf("receivables: load collections: %w", err)
	}

	names := make(map[string]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}

	var opts []exposure.Option
	if req.Deduplicate {
		opts = append(opts, exposure.WithDeduplication())
	}
	items := exposure.BuildList(exposure.SideReceivable, sales, entries, names, aging.FlatTermPolicy{}, asOf, opts...)
	items = exposure.Filter(items, req.Query, req.Bucket)

	view := ExposureView{Items: items, Summary: exposure.Summarize(items)}
	if req.Page > 0 {
		p := shared.NewPagination(req.Page, req.PerPage, len(items))
		start, end := p.Slice(len(items))
		view.Items = items[start:end]
		view.Pagination = &p
	}
	return view, nil
}

// fetch loads one collection through the versioned cache. Only the raw
// collections are cached; the derived view is recomputed on every call.
func (s *Service) fetch(ctx context.Context, keyBase string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	key, err := s.cache.BuildKey(ctx, keyBase)
	if err != nil {
		return err
	}
	return s.cache.FetchJSON(ctx, key, dest, loader)
}
