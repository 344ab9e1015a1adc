// Package payables serves the accounts-payable screen: purchase invoices
// merged with payable ledger lines. Unlike receivables, purchase documents
// carry an explicit due date, so aging resolves each document's own term
// instead of assuming a flat one.
package payables

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

// Store lists the collections the payables view consumes.
type Store interface {
	ListPurchaseInvoices(ctx context.Context, tenantID string) ([]finance.Transaction, error)
	ListLedgerEntries(ctx context.Context, tenantID string) ([]finance.LedgerEntry, error)
}

// Service builds the payable exposure view.
type Service struct {
	store Store
	cache *cache.Cache
}

// NewService builds a Service instance.
func NewService(store Store, cache *cache.Cache) *Service {
	return &Service{store: store, cache: cache}
}

// ListRequest narrows the exposure view. Page 0 disables pagination.
type ListRequest struct {
	Query       string
	Bucket      aging.Bucket
	AsOf        time.Time
	Deduplicate bool
	Page        int
	PerPage     int
}

// ExposureView carries the aged item list plus header totals. The summary
// always covers the full filtered list, not just the returned page.
type ExposureView struct {
	Items      []exposure.Item    `json:"items"`
	Summary    exposure.Summary   `json:"summary"`
	Pagination *shared.Pagination `json:"pagination,omitempty"`
}

// BuildExposure fetches the tenant's purchase invoices and ledger lines
// concurrently and reconciles them. Suppliers are free text on the
// document, so no counterparty index is consulted.
func (s *Service) BuildExposure(ctx context.Context, tenantID string, req ListRequest) (ExposureView, error) {
	if tenantID == "" {
		return ExposureView{}, shared.ErrTenantMissing
	}
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	var (
		invoices []finance.Transaction
		entries  []finance.LedgerEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.fetch(gctx, "payables:invoices:"+tenantID, &invoices, func(ctx context.Context) (interface{}, error) {
			return s.store.ListPurchaseInvoices(ctx, tenantID)
		})
	})
	g.Go(func() error {
		return s.fetch(gctx, "payables:ledger:"+tenantID, &entries, func(ctx context.Context) (interface{}, error) {
			return s.store.ListLedgerEntries(ctx, tenantID)
		})
	})
	if err := g.Wait(); err != nil {
		return ExposureView{}, fmt.Errorf("payables: load collections: %w", err)
	}

	var opts []exposure.Option
	if req.Deduplicate {
		opts = append(opts, exposure.WithDeduplication())
	}
	items := exposure.BuildList(exposure.SidePayable, invoices, entries, nil, aging.ResolvedTermPolicy{}, asOf, opts...)
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

func (s *Service) fetch(ctx context.Context, keyBase string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	key, err := s.cache.BuildKey(ctx, keyBase)
	if err != nil {
		return err
	}
	return s.cache.FetchJSON(ctx, key, dest, loader)
}
