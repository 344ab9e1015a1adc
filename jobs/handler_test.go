package jobs

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	riskPayloads   []RiskScanPayload
	digestPayloads []ExposureDigestPayload
}

func (f *fakeEnqueuer) EnqueueRiskScan(_ context.Context, payload RiskScanPayload) (*asynq.TaskInfo, error) {
	f.riskPayloads = append(f.riskPayloads, payload)
	return &asynq.TaskInfo{ID: "task-1", Queue: QueueDefault}, nil
}

func (f *fakeEnqueuer) EnqueueExposureDigest(_ context.Context, payload ExposureDigestPayload) (*asynq.TaskInfo, error) {
	f.digestPayloads = append(f.digestPayloads, payload)
	return &asynq.TaskInfo{ID: "task-2", Queue: QueueDefault}, nil
}

func newJobsRouter(client Enqueuer) http.Handler {
	r := chi.NewRouter()
	r.Route("/jobs", NewHandler(nil, client, slog.Default()).MountRoutes)
	return r
}

func TestTriggerRiskScanEnqueues(t *testing.T) {
	enq := &fakeEnqueuer{}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs/risk-scan?as_of=2026-03-01", nil)
	newJobsRouter(enq).ServeHTTP(rr, req)

	require.Equal(t, http.StatusAccepted, rr.Code)
	require.Contains(t, rr.Body.String(), "task-1")
	require.Len(t, enq.riskPayloads, 1)
	require.Equal(t, "2026-03-01", enq.riskPayloads[0].AsOf)
}

func TestTriggerExposureDigestDefaultsAsOf(t *testing.T) {
	enq := &fakeEnqueuer{}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs/exposure-digest", nil)
	newJobsRouter(enq).ServeHTTP(rr, req)

	require.Equal(t, http.StatusAccepted, rr.Code)
	require.Len(t, enq.digestPayloads, 1)
	require.Empty(t, enq.digestPayloads[0].AsOf)
}

func TestTriggerRejectsBadDate(t *testing.T) {
	enq := &fakeEnqueuer{}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs/risk-scan?as_of=not-a-date", nil)
	newJobsRouter(enq).ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Empty(t, enq.riskPayloads)
}

func TestTriggerWithoutClientUnavailable(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs/risk-scan", nil)
	newJobsRouter(nil).ServeHTTP(rr, req)

	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
