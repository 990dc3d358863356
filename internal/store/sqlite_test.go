package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opennacc/digitize-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testParams() model.RunParams {
	return model.RunParams{
		PagesDir:         "/data/pages",
		OutputDir:        "/data/out",
		Model:            "claude-sonnet-4-5-20250929",
		MaxPagesPerBatch: 25,
	}
}

func TestSQLite_RunLifecycle(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testParams())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	require.NoError(t, st.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning))

	result := &model.RunResult{Documents: 3, Succeeded: 2, Partial: 1, TotalCostUSD: 0.42}
	require.NoError(t, st.UpdateRunResult(ctx, run.ID, result))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	assert.Equal(t, "/data/pages", got.Params.PagesDir)
	require.NotNil(t, got.Result)
	assert.Equal(t, 2, got.Result.Succeeded)
}

func TestSQLite_UpdateMissingRun(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.UpdateRunStatus(context.Background(), "no-such-run", model.RunStatusFailed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_ListRunsFiltered(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	a, err := st.CreateRun(ctx, testParams())
	require.NoError(t, err)
	_, err = st.CreateRun(ctx, testParams())
	require.NoError(t, err)
	require.NoError(t, st.UpdateRunStatus(ctx, a.ID, model.RunStatusFailed))

	failed, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, a.ID, failed[0].ID)

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSQLite_DocumentLifecycle(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testParams())
	require.NoError(t, err)

	doc, err := st.CreateDocument(ctx, run.ID, "DOC-0001", 101)
	require.NoError(t, err)
	assert.Equal(t, model.DocStatusPending, doc.Status)

	score := 0.84
	require.NoError(t, st.CompleteDocument(ctx, doc.ID, model.DocumentOutcome{
		Status:   model.DocStatusSuccess,
		Batches:  2,
		Warnings: 1,
		Score:    &score,
		CostUSD:  0.12,
	}))

	docs, err := st.ListDocuments(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, model.DocStatusSuccess, docs[0].Status)
	require.NotNil(t, docs[0].Outcome)
	assert.Equal(t, 2, docs[0].Outcome.Batches)
	require.NotNil(t, docs[0].Outcome.Score)
	assert.InDelta(t, 0.84, *docs[0].Outcome.Score, 1e-9)
	assert.NotNil(t, docs[0].FinishedAt)
}

func TestSQLite_BatchCacheSetAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.SetCachedBatch(ctx, "DOC-0001", 0, "FULL", []byte(`{"assets":[]}`), time.Hour))

	payload, err := st.GetCachedBatch(ctx, "DOC-0001", 0, "FULL")
	require.NoError(t, err)
	assert.JSONEq(t, `{"assets":[]}`, string(payload))

	missing, err := st.GetCachedBatch(ctx, "DOC-0001", 1, "ASSETS_ONLY")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLite_BatchCacheUpsert(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.SetCachedBatch(ctx, "DOC-0001", 0, "FULL", []byte(`{"v":1}`), time.Hour))
	require.NoError(t, st.SetCachedBatch(ctx, "DOC-0001", 0, "FULL", []byte(`{"v":2}`), time.Hour))

	payload, err := st.GetCachedBatch(ctx, "DOC-0001", 0, "FULL")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(payload))
}

func TestSQLite_BatchCacheExpiry(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.SetCachedBatch(ctx, "DOC-0001", 0, "FULL", []byte(`{}`), -time.Hour))

	payload, err := st.GetCachedBatch(ctx, "DOC-0001", 0, "FULL")
	require.NoError(t, err)
	assert.Nil(t, payload)

	n, err := st.DeleteExpiredBatches(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
