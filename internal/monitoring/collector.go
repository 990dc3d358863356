// Package monitoring aggregates run history into operational metrics.
package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/opennacc/digitize-cli/internal/model"
	"github.com/opennacc/digitize-cli/internal/store"
)

// MetricsSnapshot holds a point-in-time view over recent runs.
type MetricsSnapshot struct {
	RunsTotal    int `json:"runs_total"`
	RunsComplete int `json:"runs_complete"`
	RunsFailed   int `json:"runs_failed"`
	RunsActive   int `json:"runs_active"`

	Documents         int     `json:"documents"`
	DocumentsOK       int     `json:"documents_ok"`
	DocumentsPartial  int     `json:"documents_partial"`
	DocumentsFailed   int     `json:"documents_failed"`
	DocumentFailRate  float64 `json:"document_fail_rate"`
	TotalCostUSD      float64 `json:"total_cost_usd"`
	MeanScore         float64 `json:"mean_score"`
	ScoredRuns        int     `json:"scored_runs"`
	PassRateThreshold float64 `json:"pass_threshold"`

	RunsConsidered int       `json:"runs_considered"`
	CollectedAt    time.Time `json:"collected_at"`
}

// Collector gathers metrics from the run store.
type Collector struct {
	store store.Store
}

// NewCollector creates a metrics collector.
func NewCollector(st store.Store) *Collector {
	return &Collector{store: st}
}

// Collect aggregates the latest runs into a snapshot. limit bounds how many
// runs are considered; zero means the store default.
func (c *Collector) Collect(ctx context.Context, limit int) (*MetricsSnapshot, error) {
	if limit <= 0 {
		limit = 100
	}
	runs, err := c.store.ListRuns(ctx, store.RunFilter{Limit: limit})
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list runs")
	}

	snap := &MetricsSnapshot{
		RunsTotal:         len(runs),
		RunsConsidered:    limit,
		PassRateThreshold: 0.70,
		CollectedAt:       time.Now().UTC(),
	}

	var scoreSum float64
	for _, r := range runs {
		switch r.Status {
		case model.RunStatusComplete:
			snap.RunsComplete++
		case model.RunStatusFailed:
			snap.RunsFailed++
		default:
			snap.RunsActive++
		}
		if r.Result == nil {
			continue
		}
		snap.Documents += r.Result.Documents
		snap.DocumentsOK += r.Result.Succeeded
		snap.DocumentsPartial += r.Result.Partial
		snap.DocumentsFailed += r.Result.Failed
		snap.TotalCostUSD += r.Result.TotalCostUSD
		if r.Result.MeanScore != nil {
			scoreSum += *r.Result.MeanScore
			snap.ScoredRuns++
		}
	}
	if snap.Documents > 0 {
		snap.DocumentFailRate = float64(snap.DocumentsFailed) / float64(snap.Documents)
	}
	if snap.ScoredRuns > 0 {
		snap.MeanScore = scoreSum / float64(snap.ScoredRuns)
	}
	return snap, nil
}
