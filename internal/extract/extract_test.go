package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opennacc/digitize-cli/internal/pages"
	"github.com/opennacc/digitize-cli/internal/planner"
	"github.com/opennacc/digitize-cli/pkg/anthropic"
)

// fakeClient replays canned responses and records requests.
type fakeClient struct {
	requests  []anthropic.MessageRequest
	responses []*anthropic.MessageResponse
	errs      []error
}

func (f *fakeClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.requests = append(f.requests, req)
	i := len(f.requests) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return nil, eris.New("fake: no response configured")
}

func textResponse(body string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content:    []anthropic.ContentBlock{{Type: "text", Text: body}},
		StopReason: "end_turn",
	}
}

func testPages(n int) []pages.Image {
	out := make([]pages.Image, n)
	for i := range out {
		out[i] = pages.Image{MediaType: "image/jpeg", Data: "aWdub3JlZA=="}
	}
	return out
}

func TestExtractBatchFull(t *testing.T) {
	client := &fakeClient{responses: []*anthropic.MessageResponse{
		textResponse(`{"submitter": {"first_name": "สมชาย", "last_name": "ใจดี"}, "assets": [{"index": 1, "asset_type_id": 1}]}`),
	}}
	ex := New(client, Config{RetryLimit: 1})

	spec := planner.Spec{Index: 0, StartPage: 1, EndPage: 3, Kind: planner.KindFull}
	out, err := ex.ExtractBatch(context.Background(), spec, testPages(3), 101, 7)
	require.NoError(t, err)
	require.NotNil(t, out.Result.Submitter)
	assert.Len(t, out.Result.Assets, 1)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	require.Len(t, req.Messages, 1)
	assert.Len(t, req.Messages[0].Parts, 4, "three pages plus the prompt")

	prompt := req.Messages[0].Parts[3].Text
	assert.Contains(t, prompt, "NACC ID: 101")
	assert.Contains(t, prompt, `"submitter"`)
	require.Len(t, req.System, 1)
	assert.NotNil(t, req.System[0].CacheControl)
}

func TestExtractBatchAssetsOnly(t *testing.T) {
	client := &fakeClient{responses: []*anthropic.MessageResponse{
		textResponse(`{"assets": []}`),
	}}
	ex := New(client, Config{RetryLimit: 1})

	spec := planner.Spec{Index: 1, StartPage: 26, EndPage: 30, Kind: planner.KindAssetsOnly}
	out, err := ex.ExtractBatch(context.Background(), spec, testPages(5), 101, 7)
	require.NoError(t, err)
	assert.False(t, out.Result.HasNonAssetSections())

	prompt := client.requests[0].Messages[0].Parts[5].Text
	assert.Contains(t, prompt, "ignore any other sections")
	assert.NotContains(t, prompt, `"statements"`)
}

func TestExtractBatchPermanentFailure(t *testing.T) {
	client := &fakeClient{errs: []error{eris.New("invalid api key")}}
	ex := New(client, Config{RetryLimit: 3})

	spec := planner.Spec{Index: 0, Kind: planner.KindFull}
	_, err := ex.ExtractBatch(context.Background(), spec, testPages(1), 101, 7)
	require.Error(t, err)

	var exErr *ExtractionError
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, ReasonAPIError, exErr.Reason)
	assert.Len(t, client.requests, 1, "permanent errors must not be retried")
}

func TestExtractBatchMalformedResponse(t *testing.T) {
	client := &fakeClient{responses: []*anthropic.MessageResponse{
		textResponse("I cannot read these pages."),
	}}
	ex := New(client, Config{RetryLimit: 1})

	spec := planner.Spec{Index: 2, Kind: planner.KindAssetsOnly}
	_, err := ex.ExtractBatch(context.Background(), spec, testPages(1), 101, 7)

	var exErr *ExtractionError
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, ReasonMalformed, exErr.Reason)
	assert.Equal(t, 2, exErr.Batch)
	assert.True(t, strings.Contains(err.Error(), "malformed_response"))
}
