package receivables

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/finance"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

func newTestRouter(store *fakeStore) http.Handler {
	handler := NewHandler(slog.Default(), newTestService(store))
	r := chi.NewRouter()
	r.Route("/finance/receivables", handler.MountRoutes)
	return r
}

func TestListEndpointReturnsExposure(t *testing.T) {
	today := time.Now()
	store := &fakeStore{
		sales: []finance.Transaction{
			{ID: "s1", CounterpartyID: "c1", Date: today.AddDate(0, 0, -45), Amount: 500, PaymentTerm: "credit_30", Status: finance.StatusCompleted},
		},
		customers: []finance.Customer{{ID: "c1", Name: "Comercial Andina"}},
	}

	req := httptest.NewRequest(http.MethodGet, "/finance/receivables", nil)
	req = req.WithContext(shared.ContextWithTenant(req.Context(), "t1"))
	rr := httptest.NewRecorder()
	newTestRouter(store).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var view ExposureView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	require.Len(t, view.Items, 1)
	require.InDelta(t, 500.0, view.Summary.Overdue, 0.001)
}

func TestListEndpointRejectsBadBucket(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/finance/receivables?bucket=bogus", nil)
	req = req.WithContext(shared.ContextWithTenant(req.Context(), "t1"))
	rr := httptest.NewRecorder()
	newTestRouter(&fakeStore{}).ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListEndpointRequiresTenant(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/finance/receivables", nil)
	rr := httptest.NewRecorder()
	newTestRouter(&fakeStore{}).ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSummaryEndpointHonorsAsOf(t *testing.T) {
	origin := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{
		sales: []finance.Transaction{
			{ID: "s1", CounterpartyID: "c1", Date: origin, Amount: 300, PaymentTerm: "credit_30", Status: finance.StatusCompleted},
		},
		customers: []finance.Customer{{ID: "c1", Name: "Comercial Andina"}},
	}

	req := httptest.NewRequest(http.MethodGet, "/finance/receivables/summary?as_of=2026-03-01", nil)
	req = req.WithContext(shared.ContextWithTenant(req.Context(), "t1"))
	rr := httptest.NewRecorder()
	newTestRouter(store).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var summary struct {
		Overdue float64 `json:"overdue"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	require.InDelta(t, 300.0, summary.Overdue, 0.001)
}
