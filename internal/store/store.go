// Package store persists run and document status plus cached extraction
// payloads, behind a driver-neutral interface with SQLite and Postgres
// implementations.
package store

import (
	"context"
	"time"

	"github.com/opennacc/digitize-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the digitization pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, params model.RunParams) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunResult(ctx context.Context, runID string, result *model.RunResult) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Per-document status within a run
	CreateDocument(ctx context.Context, runID, docID string, naccID int) (*model.DocumentRecord, error)
	CompleteDocument(ctx context.Context, documentID string, outcome model.DocumentOutcome) error
	ListDocuments(ctx context.Context, runID string) ([]model.DocumentRecord, error)

	// Batch cache: raw model output per (doc, batch, kind) so reruns skip
	// the vision calls that already succeeded.
	GetCachedBatch(ctx context.Context, docID string, batch int, kind string) ([]byte, error)
	SetCachedBatch(ctx context.Context, docID string, batch int, kind string, payload []byte, ttl time.Duration) error
	DeleteExpiredBatches(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
