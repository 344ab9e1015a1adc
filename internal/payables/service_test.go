package payables

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/finance"
	"github.com/meridian-erp/meridian-erp/internal/finance/aging"
	"github.com/meridian-erp/meridian-erp/internal/platform/cache"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

type fakeStore struct {
	invoices []finance.Transaction
	entries  []finance.LedgerEntry
}

func (f *fakeStore) ListPurchaseInvoices(ctx context.Context, tenantID string) ([]finance.Transaction, error) {
	return f.invoices, nil
}

func (f *fakeStore) ListLedgerEntries(ctx context.Context, tenantID string) ([]finance.LedgerEntry, error) {
	return f.entries, nil
}

func newTestService(store *fakeStore) *Service {
	return &Service{store: store, cache: cache.NewCache(nil, 0)}
}

func TestBuildExposureUsesDocumentDueDates(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := today.AddDate(0, 0, -5)
	store := &fakeStore{
		invoices: []finance.Transaction{
			// Explicit due date five days back, even though the document
			// itself is only ten days old.
			{ID: "p1", CounterpartyName: "Distribuidora del Sur", Date: today.AddDate(0, 0, -10), Amount: 900, DueDate: &due},
			// No due date: the invoice's own term resolves against origin.
			{ID: "p2", CounterpartyName: "Aceros Roca", Date: today.AddDate(0, 0, -20), Amount: 400, PaymentTerm: "credit_60"},
		},
	}

	view, err := newTestService(store).BuildExposure(context.Background(), "t1", ListRequest{AsOf: today})
	require.NoError(t, err)
	require.Len(t, view.Items, 2)

	require.Equal(t, "p1", view.Items[0].ID)
	require.Equal(t, aging.BucketOverdue, view.Items[0].Bucket)
	require.Equal(t, 5, view.Items[0].DaysOverdue)

	require.Equal(t, "p2", view.Items[1].ID)
	require.Equal(t, aging.BucketDueSoon, view.Items[1].Bucket)
}

func TestBuildExposureIncludesPayableLedgerSide(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{
		entries: []finance.LedgerEntry{
			{ID: "l1", Account: "2100 Cuentas por Pagar", Credit: 350, Date: today.AddDate(0, 0, -1), Description: "Factura pendiente"},
			// Receivable-side account must not leak into payables.
			{ID: "l2", Account: "1200 cuentas por cobrar", Debit: 500, Date: today},
			// Net on the wrong side of the account is skipped.
			{ID: "l3", Account: "2100 cuentas por pagar", Debit: 80, Date: today},
		},
	}

	view, err := newTestService(store).BuildExposure(context.Background(), "t1", ListRequest{AsOf: today})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.Equal(t, "ledger-l1", view.Items[0].ID)
	require.InDelta(t, 350.0, view.Items[0].OutstandingBalance, 0.001)
}

func TestBuildExposureRequiresTenant(t *testing.T) {
	_, err := newTestService(&fakeStore{}).BuildExposure(context.Background(), "", ListRequest{})
	require.ErrorIs(t, err, shared.ErrTenantMissing)
}

func TestBuildExposureIncludesUncompletedPurchases(t *testing.T) {
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{
		invoices: []finance.Transaction{
			{ID: "p1", CounterpartyName: "Aceros Roca", Date: today, Amount: 100, Status: "Pendiente"},
		},
	}

	view, err := newTestService(store).BuildExposure(context.Background(), "t1", ListRequest{AsOf: today})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
}
