// Package customers serves credit-risk assessments and the pre-sale order
// gate. Assessments are derived views: nothing here writes state.
package customers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/meridian-erp/meridian-erp/internal/finance"
	"github.com/meridian-erp/meridian-erp/internal/finance/risk"
	"github.com/meridian-erp/meridian-erp/internal/finance/terms"
	"github.com/meridian-erp/meridian-erp/internal/platform/cache"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Store lists the collections risk scoring consumes.
type Store interface {
	GetCustomer(ctx context.Context, tenantID, customerID string) (finance.Customer, error)
	ListCustomers(ctx context.Context, tenantID string) ([]finance.Customer, error)
	ListSales(ctx context.Context, tenantID string) ([]finance.Transaction, error)
	ListComplaints(ctx context.Context, tenantID string) ([]finance.Complaint, error)
}

// Service computes customer risk assessments.
type Service struct {
	store Store
	cache *cache.Cache
}

// NewService builds a Service instance.
func NewService(store Store, cache *cache.Cache) *Service {
	return &Service{store: store, cache: cache}
}

// AssessCustomer scores one customer as of the given date. A zero asOf
// means now.
func (s *Service) AssessCustomer(ctx context.Context, tenantID, customerID string, asOf time.Time) (risk.Assessment, error) {
	if tenantID == "" {
		return risk.Assessment{}, shared.ErrTenantMissing
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}

	customer, sales, complaints, err := s.loadScoringInputs(ctx, tenantID, customerID)
	if err != nil {
		return risk.Assessment{}, err
	}
	return risk.EvaluateCustomer(customer, sales, complaints, asOf), nil
}

// AssessAll scores every customer of a tenant in one pass over the shared
// collections. The portfolio endpoint and the background sweep both use it.
func (s *Service) AssessAll(ctx context.Context, tenantID string, asOf time.Time) ([]risk.Assessment, error) {
	if tenantID == "" {
		return nil, shared.ErrTenantMissing
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}

	var (
		customers  []finance.Customer
		sales      []finance.Transaction
		complaints []finance.Complaint
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.fetch(gctx, "customers:all:"+tenantID, &customers, func(ctx context.Context) (interface{}, error) {
			return s.store.ListCustomers(ctx, tenantID)
		})
	})
	g.Go(func() error {
		return s.fetch(gctx, "customers:sales:"+tenantID, &sales, func(ctx context.Context) (interface{}, error) {
			return s.store.ListSales(ctx, tenantID)
		})
	})
	g.Go(func() error {
		return s.fetch(gctx, "customers:complaints:"+tenantID, &complaints, func(ctx context.Context) (interface{}, error) {
			return s.store.ListComplaints(ctx, tenantID)
		})
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("customers: load collections: %w", err)
	}

	out := make([]risk.Assessment, 0, len(customers))
	for _, customer := range customers {
		out = append(out, risk.EvaluateCustomer(customer, sales, complaints, asOf))
	}
	return out, nil
}

// OrderRequest is a proposed sales order to gate.
type OrderRequest struct {
	Total       float64
	PaymentTerm string
	AsOf        time.Time
}

// ValidateOrder gates a proposed order for one customer: risk tier, active
// status and remaining credit headroom for credit terms.
func (s *Service) ValidateOrder(ctx context.Context, tenantID, customerID string, req OrderRequest) (risk.OrderCheck, error) {
	if tenantID == "" {
		return risk.OrderCheck{}, shared.ErrTenantMissing
	}
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	customer, sales, complaints, err := s.loadScoringInputs(ctx, tenantID, customerID)
	if err != nil {
		return risk.OrderCheck{}, err
	}
	assessment := risk.EvaluateCustomer(customer, sales, complaints, asOf)
	return risk.ValidateOrder(customer, assessment, req.Total, !terms.IsCashTerm(req.PaymentTerm)), nil
}

// loadScoringInputs fetches one customer plus the shared sale and
// complaint collections concurrently. The customer read bypasses the
// cache: it is a primary-key lookup and staleness on the credit limit
// would gate orders against old numbers.
func (s *Service) loadScoringInputs(ctx context.Context, tenantID, customerID string) (finance.Customer, []finance.Transaction, []finance.Complaint, error) {
	var (
		customer   finance.Customer
		sales      []finance.Transaction
		complaints []finance.Complaint
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.store.GetCustomer(gctx, tenantID, customerID)
		if errors.Is(err, pgx.ErrNoRows) {
			return shared.ErrNotFound
		}
		if err != nil {
			return err
		}
		customer = c
		return nil
	})
	g.Go(func() error {
		return s.fetch(gctx, "customers:sales:"+tenantID, &sales, func(ctx context.Context) (interface{}, error) {
			return s.store.ListSales(ctx, tenantID)
		})
	})
	g.Go(func() error {
		return s.fetch(gctx, "customers:complaints:"+tenantID, &complaints, func(ctx context.Context) (interface{}, error) {
			return s.store.ListComplaints(ctx, tenantID)
		})
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return finance.Customer{}, nil, nil, err
		}
		return finance.Customer{}, nil, nil, fmt.Errorf("customers: load collections: %w", err)
	}
	return customer, sales, complaints, nil
}

func (s *Service) fetch(ctx context.Context, keyBase string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	key, err := s.cache.BuildKey(ctx, keyBase)
	if err != nil {
		return err
	}
	return s.cache.FetchJSON(ctx, key, dest, loader)
}
