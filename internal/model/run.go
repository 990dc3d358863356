package model

import "time"

// RunStatus tracks a batch run through its lifecycle.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// DocStatus is the terminal state of one document within a run.
type DocStatus string

const (
	DocStatusPending DocStatus = "pending"
	DocStatusSuccess DocStatus = "success"
	DocStatusPartial DocStatus = "partial"
	DocStatusFailed  DocStatus = "failed"
)

// RunParams records the inputs a run was started with.
type RunParams struct {
	PagesDir         string `json:"pages_dir"`
	OutputDir        string `json:"output_dir"`
	GroundTruthDir   string `json:"ground_truth_dir,omitempty"`
	Model            string `json:"model"`
	MaxPagesPerBatch int    `json:"max_pages_per_batch"`
}

// RunResult summarizes a finished run.
type RunResult struct {
	Documents    int      `json:"documents"`
	Succeeded    int      `json:"succeeded"`
	Partial      int      `json:"partial"`
	Failed       int      `json:"failed"`
	TotalCostUSD float64  `json:"total_cost_usd"`
	MeanScore    *float64 `json:"mean_score,omitempty"`
}

// Run is one batch digitization run.
type Run struct {
	ID        string     `json:"id"`
	Params    RunParams  `json:"params"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// DocumentOutcome is the terminal record of one document's processing.
type DocumentOutcome struct {
	Status   DocStatus `json:"status"`
	Batches  int       `json:"batches"`
	Warnings int       `json:"warnings"`
	Score    *float64  `json:"score,omitempty"`
	CostUSD  float64   `json:"cost_usd"`
	Error    string    `json:"error,omitempty"`
}

// DocumentRecord tracks one document within a run.
type DocumentRecord struct {
	ID         string           `json:"id"`
	RunID      string           `json:"run_id"`
	DocID      string           `json:"doc_id"`
	NaccID     int              `json:"nacc_id"`
	Status     DocStatus        `json:"status"`
	Outcome    *DocumentOutcome `json:"outcome,omitempty"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
}
