package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/meridian-erp/meridian-erp/internal/jobs"
	"github.com/meridian-erp/meridian-erp/internal/payables"
	"github.com/meridian-erp/meridian-erp/internal/receivables"
)

// ExposureDigestJob logs each tenant's receivable and payable totals. The
// digest is the operational heartbeat: a tenant whose overdue total climbs
// day over day shows up in the log stream without anyone opening the app.
type ExposureDigestJob struct {
	Tenants     TenantSource
	Receivables *receivables.Service
	Payables    *payables.Service
	Logger      *slog.Logger
	Metrics     *jobmetrics.Metrics
	clock       func() time.Time
}

// NewExposureDigestJob initialises the digest handler.
func NewExposureDigestJob(tenants TenantSource, rcv *receivables.Service, pay *payables.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *ExposureDigestJob {
	return &ExposureDigestJob{
		Tenants:     tenants,
		Receivables: rcv,
		Payables:    pay,
		Logger:      logger,
		Metrics:     metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the digest.
func (j *ExposureDigestJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Tenants == nil || j.Receivables == nil || j.Payables == nil {
		return errors.New("exposure digest: handler not configured")
	}
	var payload ExposureDigestPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	asOf := j.now()
	if payload.AsOf != "" {
		parsed, err := time.Parse("2006-01-02", payload.AsOf)
		if err != nil {
			return asynq.SkipRetry
		}
		asOf = parsed
	}

	tracker := j.metrics().Track("exposure_digest")
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	logger.Info("starting exposure digest", slog.Time("as_of", asOf))

	tenants, err := j.Tenants.ListTenants(ctx)
	if err != nil {
		resultErr = err
		logger.Error("list tenants", slog.Any("error", err))
		return resultErr
	}

	for _, tenantID := range tenants {
		rcv, err := j.Receivables.BuildExposure(ctx, tenantID, receivables.ListRequest{AsOf: asOf})
		if err != nil {
			resultErr = err
			logger.Error("receivable digest", slog.String("tenant", tenantID), slog.Any("error", err))
			return resultErr
		}
		pay, err := j.Payables.BuildExposure(ctx, tenantID, payables.ListRequest{AsOf: asOf})
		if err != nil {
			resultErr = err
			logger.Error("payable digest", slog.String("tenant", tenantID), slog.Any("error", err))
			return resultErr
		}
		logger.Info("tenant exposure digest",
			slog.String("tenant", tenantID),
			slog.Float64("receivable_total", rcv.Summary.Total),
			slog.Float64("receivable_overdue", rcv.Summary.Overdue),
			slog.Float64("payable_total", pay.Summary.Total),
			slog.Float64("payable_overdue", pay.Summary.Overdue),
		)
	}

	logger.Info("completed exposure digest", slog.Int("tenants", len(tenants)))
	return resultErr
}

func (j *ExposureDigestJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeExposureDigest))
	}
	return slog.Default().With(slog.String("job", TaskTypeExposureDigest))
}

func (j *ExposureDigestJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ExposureDigestJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
