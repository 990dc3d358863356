package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSDKMessagesMixedParts(t *testing.T) {
	msgs := []Message{
		UserMessage(
			TextPart("read these pages"),
			ImagePart("image/png", "aGVsbG8="),
			ImagePart("image/png", "d29ybGQ="),
		),
		{Role: "assistant", Parts: []ContentPart{TextPart("{}")}},
	}

	out := toSDKMessages(msgs)
	require.Len(t, out, 2)
	assert.Equal(t, "user", string(out[0].Role))
	require.Len(t, out[0].Content, 3)
	assert.NotNil(t, out[0].Content[0].OfText)
	assert.NotNil(t, out[0].Content[1].OfImage)
	assert.NotNil(t, out[0].Content[2].OfImage)
	assert.Equal(t, "assistant", string(out[1].Role))
}

func TestToSDKSystemBlocksCacheControl(t *testing.T) {
	blocks := toSDKSystemBlocks(BuildCachedSystemBlocks("system prompt"))
	require.Len(t, blocks, 1)
	assert.Equal(t, "system prompt", blocks[0].Text)
	assert.Equal(t, "1h", string(blocks[0].CacheControl.TTL))
}

func TestMessageResponseText(t *testing.T) {
	resp := &MessageResponse{Content: []ContentBlock{
		{Type: "text", Text: "{\"assets\":"},
		{Type: "tool_use"},
		{Type: "text", Text: "[]}"},
	}}
	assert.Equal(t, "{\"assets\":[]}", resp.Text())
}

func TestEstimateCost(t *testing.T) {
	usage := TokenUsage{InputTokens: 1_000_000, OutputTokens: 100_000}

	cost := usage.EstimateCost("claude-sonnet-4-5-20250929")
	assert.InDelta(t, 3.00+1.50, cost, 1e-9)

	assert.Zero(t, usage.EstimateCost("unknown-model"))
}

func TestEstimateCostWithCache(t *testing.T) {
	usage := TokenUsage{
		InputTokens:              100_000,
		OutputTokens:             10_000,
		CacheCreationInputTokens: 1_000_000,
		CacheReadInputTokens:     2_000_000,
	}

	cost := usage.EstimateCost("claude-haiku-4-5-20251001")
	want := 0.08 + 0.04 + 0.80*1.25 + 2*0.80*0.1
	assert.InDelta(t, want, cost, 1e-9)
}
