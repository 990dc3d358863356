package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opennacc/digitize-cli/internal/model"
	"github.com/opennacc/digitize-cli/internal/store"
)

func newTestRouter(t *testing.T) (http.Handler, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return newRouter(st), st
}

func TestServeHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServeListRunsEmpty(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var runs []model.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	assert.Empty(t, runs)
}

func TestServeShowRun(t *testing.T) {
	router, st := newTestRouter(t)

	run, err := st.CreateRun(context.Background(), model.RunParams{PagesDir: "/pages"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/"+run.ID, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "/pages", got.Params.PagesDir)
}

func TestServeShowRunNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeStats(t *testing.T) {
	router, st := newTestRouter(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, model.RunParams{PagesDir: "/pages"})
	require.NoError(t, err)
	require.NoError(t, st.UpdateRunResult(ctx, run.ID, &model.RunResult{
		Documents: 2, Succeeded: 2, TotalCostUSD: 0.5,
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var snap map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.EqualValues(t, 1, snap["runs_total"])
	assert.EqualValues(t, 2, snap["documents"])
}

func TestServeRunDocuments(t *testing.T) {
	router, st := newTestRouter(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, model.RunParams{PagesDir: "/pages"})
	require.NoError(t, err)
	doc, err := st.CreateDocument(ctx, run.ID, "DOC-0001", 101)
	require.NoError(t, err)
	require.NoError(t, st.CompleteDocument(ctx, doc.ID, model.DocumentOutcome{
		Status: model.DocStatusSuccess, Batches: 2,
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/"+run.ID+"/documents", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var docs []model.DocumentRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "DOC-0001", docs[0].DocID)
	require.NotNil(t, docs[0].Outcome)
	assert.Equal(t, 2, docs[0].Outcome.Batches)
}
