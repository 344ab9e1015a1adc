// Package jobs holds the background task definitions and the Asynq worker
// wiring. Two scheduled sweeps exist: the customer risk scan and the
// exposure digest.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/meridian-erp/meridian-erp/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeRiskScan re-scores every customer of every tenant.
	TaskTypeRiskScan = "risk:scan"
	// TaskTypeExposureDigest logs per-tenant exposure totals.
	TaskTypeExposureDigest = "exposure:digest"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// RiskScanPayload tunes a risk sweep run. An empty AsOf means now.
type RiskScanPayload struct {
	AsOf string `json:"asOf,omitempty"`
}

// NewRiskScanTask constructs an Asynq task for the risk sweep.
func NewRiskScanTask(payload RiskScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeRiskScan, data), nil
}

// ExposureDigestPayload tunes a digest run.
type ExposureDigestPayload struct {
	AsOf string `json:"asOf,omitempty"`
}

// NewExposureDigestTask constructs an Asynq task for the exposure digest.
func NewExposureDigestTask(payload ExposureDigestPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeExposureDigest, data), nil
}
