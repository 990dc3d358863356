package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opennacc/digitize-cli/internal/extract"
	"github.com/opennacc/digitize-cli/internal/gtruth"
	"github.com/opennacc/digitize-cli/internal/model"
	"github.com/opennacc/digitize-cli/internal/pages"
	"github.com/opennacc/digitize-cli/internal/planner"
	"github.com/opennacc/digitize-cli/internal/store"
)

// fakeProvider serves a fixed page count per document.
type fakeProvider struct {
	counts map[string]int
}

func (f *fakeProvider) Pages(docID string) ([]pages.Image, error) {
	n, ok := f.counts[docID]
	if !ok {
		return nil, eris.Errorf("no rendered pages for %s", docID)
	}
	out := make([]pages.Image, n)
	for i := range out {
		out[i] = pages.Image{MediaType: "image/jpeg", Data: "aWdub3JlZA=="}
	}
	return out, nil
}

// fakeExtractor replays canned batches by spec index and counts calls.
type fakeExtractor struct {
	mu      sync.Mutex
	calls   int
	results map[int]*extract.Batch
	errs    map[int]error
}

func (f *fakeExtractor) ExtractBatch(ctx context.Context, spec planner.Spec, batchPages []pages.Image, naccID, submitterID int) (*extract.Batch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.errs[spec.Index]; ok {
		return nil, err
	}
	if b, ok := f.results[spec.Index]; ok {
		return b, nil
	}
	return &extract.Batch{Result: &model.BatchResult{}}, nil
}

func (f *fakeExtractor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func fullBatch() *extract.Batch {
	v := 3_500_000.0
	return &extract.Batch{
		Result: &model.BatchResult{
			Submitter: &model.SubmitterInfo{Title: "นาย", FirstName: "สมชาย", LastName: "ใจดี"},
			Statements: []model.Statement{
				{Type: model.StatementIncome, ValuationSubmitter: &v},
			},
			Assets: []model.Asset{
				{Index: 1, TypeID: model.AssetLandChanot, Name: "ที่ดิน โฉนดเลขที่ 12345", Valuation: &v},
			},
		},
		CostUSD: 0.12,
	}
}

func assetsBatch() *extract.Batch {
	return &extract.Batch{
		Result: &model.BatchResult{
			Assets: []model.Asset{
				{Index: 1, TypeID: model.AssetVehicleCar, Name: "รถยนต์ Toyota Camry"},
			},
		},
		CostUSD: 0.05,
	}
}

func testDoc() pages.Document {
	return pages.Document{DocID: "DOC-0101", NaccID: 101, SubmitterID: 7}
}

func TestProcessDocumentSuccess(t *testing.T) {
	ex := &fakeExtractor{results: map[int]*extract.Batch{0: fullBatch(), 1: assetsBatch()}}
	p := New(newTestStore(t), &fakeProvider{counts: map[string]int{"DOC-0101": 30}}, ex, nil, Options{MaxPagesPerBatch: 25})

	res, err := p.ProcessDocument(context.Background(), testDoc())
	require.NoError(t, err)

	assert.Equal(t, model.DocStatusSuccess, res.Status)
	assert.Equal(t, 2, res.Batches)
	assert.Equal(t, 2, ex.callCount())
	assert.InDelta(t, 0.17, res.CostUSD, 1e-9)

	require.NotNil(t, res.RecordSet)
	assert.Equal(t, "สมชาย", res.RecordSet.Submitter.FirstName)
	require.Len(t, res.RecordSet.Assets, 2)
	assert.Equal(t, 1, res.RecordSet.Assets[0].Index)
	assert.Equal(t, 2, res.RecordSet.Assets[1].Index, "assets renumbered across batches")
	assert.Nil(t, res.Report, "no ground truth configured")
}

func TestProcessDocumentSecondPassServedFromCache(t *testing.T) {
	ex := &fakeExtractor{results: map[int]*extract.Batch{0: fullBatch(), 1: assetsBatch()}}
	p := New(newTestStore(t), &fakeProvider{counts: map[string]int{"DOC-0101": 30}}, ex, nil, Options{MaxPagesPerBatch: 25})

	first, err := p.ProcessDocument(context.Background(), testDoc())
	require.NoError(t, err)
	require.Equal(t, 2, ex.callCount())

	second, err := p.ProcessDocument(context.Background(), testDoc())
	require.NoError(t, err)

	assert.Equal(t, 2, ex.callCount(), "cached batches must not hit the model again")
	assert.Equal(t, 0.0, second.CostUSD, "cache hits cost nothing")
	assert.Equal(t, len(first.RecordSet.Assets), len(second.RecordSet.Assets))
	assert.Equal(t, first.RecordSet.Submitter, second.RecordSet.Submitter)
}

func TestProcessDocumentAssetsOnlyFailureDegradesToPartial(t *testing.T) {
	ex := &fakeExtractor{
		results: map[int]*extract.Batch{0: fullBatch()},
		errs:    map[int]error{1: eris.New("model overloaded")},
	}
	p := New(newTestStore(t), &fakeProvider{counts: map[string]int{"DOC-0101": 30}}, ex, nil, Options{MaxPagesPerBatch: 25})

	res, err := p.ProcessDocument(context.Background(), testDoc())
	require.NoError(t, err)

	assert.Equal(t, model.DocStatusPartial, res.Status)
	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, 1, res.Warnings[0].Batch)
	assert.Equal(t, "สมชาย", res.RecordSet.Submitter.FirstName, "full batch data survives")
	assert.Len(t, res.RecordSet.Assets, 1, "only the full batch's assets remain")
}

func TestProcessDocumentFullBatchFailureIsFatal(t *testing.T) {
	ex := &fakeExtractor{errs: map[int]error{0: eris.New("invalid api key")}}
	p := New(newTestStore(t), &fakeProvider{counts: map[string]int{"DOC-0101": 30}}, ex, nil, Options{MaxPagesPerBatch: 25})

	_, err := p.ProcessDocument(context.Background(), testDoc())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "full batch")
}

func TestProcessDocumentScoresAgainstGroundTruth(t *testing.T) {
	truthDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(truthDir, "submitter_info.csv"), []byte(
		"submitter_id,title,first_name,last_name\n7,นาย,สมชาย,ใจดี\n"), 0o644))

	ex := &fakeExtractor{results: map[int]*extract.Batch{0: fullBatch()}}
	p := New(newTestStore(t), &fakeProvider{counts: map[string]int{"DOC-0101": 10}}, ex, gtruth.NewLoader(truthDir), Options{MaxPagesPerBatch: 25})

	res, err := p.ProcessDocument(context.Background(), testDoc())
	require.NoError(t, err)

	require.NotNil(t, res.Report)
	assert.Equal(t, 101, res.Report.NaccID)
	assert.Greater(t, res.Report.Overall, 0.0)
}

func TestProcessDocumentMissingGroundTruthSkipsScoring(t *testing.T) {
	ex := &fakeExtractor{results: map[int]*extract.Batch{0: fullBatch()}}
	p := New(newTestStore(t), &fakeProvider{counts: map[string]int{"DOC-0101": 10}}, ex, gtruth.NewLoader(t.TempDir()), Options{MaxPagesPerBatch: 25})

	res, err := p.ProcessDocument(context.Background(), testDoc())
	require.NoError(t, err)
	assert.Nil(t, res.Report)
	assert.Equal(t, model.DocStatusSuccess, res.Status)
}

func TestRunAllRecordsOutcomes(t *testing.T) {
	st := newTestStore(t)
	ex := &fakeExtractor{results: map[int]*extract.Batch{0: fullBatch(), 1: assetsBatch()}}
	provider := &fakeProvider{counts: map[string]int{"DOC-0101": 30}}
	p := New(st, provider, ex, nil, Options{MaxPagesPerBatch: 25, MaxConcurrentDocs: 2})

	docs := []pages.Document{
		testDoc(),
		{DocID: "DOC-0404", NaccID: 404, SubmitterID: 9}, // provider has no pages for it
	}
	params := model.RunParams{PagesDir: "/pages", Model: "claude-sonnet-4-5-20250929", MaxPagesPerBatch: 25}

	out, err := p.RunAll(context.Background(), params, docs)
	require.NoError(t, err)

	assert.Equal(t, model.RunStatusComplete, out.Run.Status)
	require.NotNil(t, out.Run.Result)
	assert.Equal(t, 2, out.Run.Result.Documents)
	assert.Equal(t, 1, out.Run.Result.Succeeded)
	assert.Equal(t, 1, out.Run.Result.Failed)
	assert.InDelta(t, 0.17, out.Run.Result.TotalCostUSD, 1e-9)
	require.Len(t, out.Results, 1, "only finished documents are returned")

	recs, err := st.ListDocuments(context.Background(), out.Run.ID)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	byDoc := map[string]model.DocumentRecord{}
	for _, r := range recs {
		byDoc[r.DocID] = r
	}
	require.NotNil(t, byDoc["DOC-0101"].Outcome)
	assert.Equal(t, model.DocStatusSuccess, byDoc["DOC-0101"].Outcome.Status)
	assert.Equal(t, 2, byDoc["DOC-0101"].Outcome.Batches)
	require.NotNil(t, byDoc["DOC-0404"].Outcome)
	assert.Equal(t, model.DocStatusFailed, byDoc["DOC-0404"].Outcome.Status)
	assert.Contains(t, byDoc["DOC-0404"].Outcome.Error, "no rendered pages")
}

func TestRunAllComputesMeanScore(t *testing.T) {
	truthDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(truthDir, "submitter_info.csv"), []byte(
		"submitter_id,title,first_name,last_name\n7,นาย,สมชาย,ใจดี\n"), 0o644))

	st := newTestStore(t)
	ex := &fakeExtractor{results: map[int]*extract.Batch{0: fullBatch()}}
	p := New(st, &fakeProvider{counts: map[string]int{"DOC-0101": 10}}, ex, gtruth.NewLoader(truthDir), Options{MaxPagesPerBatch: 25})

	out, err := p.RunAll(context.Background(), model.RunParams{PagesDir: "/pages"}, []pages.Document{testDoc()})
	require.NoError(t, err)

	require.NotNil(t, out.Run.Result.MeanScore)
	assert.Greater(t, *out.Run.Result.MeanScore, 0.0)

	recs, err := st.ListDocuments(context.Background(), out.Run.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].Outcome)
	require.NotNil(t, recs[0].Outcome.Score)
	assert.InDelta(t, *out.Run.Result.MeanScore, *recs[0].Outcome.Score, 1e-9)
}
