package merge

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opennacc/digitize-cli/internal/model"
	"github.com/opennacc/digitize-cli/internal/planner"
)

func fullResult(assetCount int) *model.BatchResult {
	r := &model.BatchResult{
		Submitter: &model.SubmitterInfo{Title: "นาย", FirstName: "สมชาย", LastName: "ใจดี"},
		Statements: []model.Statement{
			{Type: model.StatementIncome},
		},
	}
	r.Assets = assetList(assetCount, "full")
	return r
}

func assetsResult(assetCount int, tag string) *model.BatchResult {
	return &model.BatchResult{Assets: assetList(assetCount, tag)}
}

func assetList(n int, tag string) []model.Asset {
	out := make([]model.Asset, n)
	for i := range out {
		out[i] = model.Asset{
			Index:  i + 1, // batch-local numbering
			TypeID: model.AssetLandChanot,
			Name:   tag,
		}
	}
	return out
}

func specsFor(results []*model.BatchResult) []planner.Spec {
	specs := make([]planner.Spec, len(results))
	for i := range specs {
		kind := planner.KindAssetsOnly
		if i == 0 {
			kind = planner.KindFull
		}
		specs[i] = planner.Spec{Index: i, StartPage: i*25 + 1, EndPage: (i + 1) * 25, Kind: kind}
	}
	return specs
}

func TestMergeRenumbersAssets(t *testing.T) {
	results := []*model.BatchResult{fullResult(3), assetsResult(2, "b1"), assetsResult(4, "b2")}

	doc, warnings, err := Merge(results, specsFor(results), 101, 7)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Len(t, doc.Assets, 9)
	for i, a := range doc.Assets {
		assert.Equal(t, i+1, a.Index)
	}
	assert.Equal(t, "full", doc.Assets[2].Name)
	assert.Equal(t, "b1", doc.Assets[3].Name)
	assert.Equal(t, "b2", doc.Assets[8].Name)
}

func TestMergeThirtyPageScenario(t *testing.T) {
	specs, err := planner.Plan(30, 25)
	require.NoError(t, err)

	results := []*model.BatchResult{fullResult(5), assetsResult(2, "tail")}
	doc, _, err := Merge(results, specs, 101, 7)
	require.NoError(t, err)

	require.Len(t, doc.Assets, 7)
	assert.Equal(t, 6, doc.Assets[5].Index)
	assert.Equal(t, "tail", doc.Assets[5].Name)
	assert.Equal(t, "tail", doc.Assets[6].Name)
}

func TestMergeFullBatchAuthoritative(t *testing.T) {
	stray := assetsResult(1, "stray")
	stray.Relatives = []model.Relative{{Index: 1, Relation: model.RelFather, FirstName: "x", LastName: "y"}}
	results := []*model.BatchResult{fullResult(1), stray}

	doc, warnings, err := Merge(results, specsFor(results), 101, 7)
	require.NoError(t, err)

	assert.Empty(t, doc.Relatives, "non-asset sections from assets-only batches are ignored")
	require.Len(t, warnings, 1)
	assert.Equal(t, 1, warnings[0].Batch)
	assert.Contains(t, warnings[0].Message, "ignored")
	assert.Len(t, doc.Assets, 2, "stray batch assets are still merged")
}

func TestMergeMissingSubmitterIsWarning(t *testing.T) {
	results := []*model.BatchResult{assetsResult(2, "only")}

	doc, warnings, err := Merge(results, specsFor(results), 101, 7)
	require.NoError(t, err, "malformed full batch must not abort the merge")
	assert.Empty(t, doc.Submitter.FirstName)

	var found bool
	for _, w := range warnings {
		if w.Batch == 0 {
			found = true
		}
	}
	assert.True(t, found, "missing submitter must be surfaced as a warning")
}

func TestMergeDeterministic(t *testing.T) {
	results := []*model.BatchResult{fullResult(3), assetsResult(2, "b1")}
	specs := specsFor(results)

	first, _, err := Merge(results, specs, 101, 7)
	require.NoError(t, err)
	second, _, err := Merge(results, specs, 101, 7)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMergeResolvesTextOnlyAssetTypes(t *testing.T) {
	full := fullResult(0)
	full.Assets = []model.Asset{
		{Index: 1, TypeMain: "โรงเรือนและสิ่งปลูกสร้าง", TypeSub: "คอนโดมิเนียม", Name: "คอนโดลุมพินี"},
		{Index: 2, TypeMain: "ไม่ทราบประเภท", Name: "ปริศนา"},
	}
	specs := specsFor([]*model.BatchResult{full})

	doc, warnings, err := Merge([]*model.BatchResult{full}, specs, 101, 7)
	require.NoError(t, err)
	require.Len(t, doc.Assets, 2)

	assert.Equal(t, model.AssetTypeID(14), doc.Assets[0].TypeID, "sub label resolves the condo band")

	assert.Equal(t, model.AssetTypeID(0), doc.Assets[1].TypeID)
	var warned bool
	for _, w := range warnings {
		if w.Batch == 0 && w.Message == `asset 2: unmapped type "ไม่ทราบประเภท"/""` {
			warned = true
		}
	}
	assert.True(t, warned, "unmappable type labels must be surfaced as a warning")
}

func TestMergeErrors(t *testing.T) {
	_, _, err := Merge(nil, nil, 101, 7)
	assert.True(t, eris.Is(err, ErrNoBatches))

	results := []*model.BatchResult{fullResult(1)}
	_, _, err = Merge(results, nil, 101, 7)
	require.Error(t, err)
}
