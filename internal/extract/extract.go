// Package extract is the vision-model boundary: it turns a planned batch of
// page images into a structured BatchResult.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/opennacc/digitize-cli/internal/model"
	"github.com/opennacc/digitize-cli/internal/pages"
	"github.com/opennacc/digitize-cli/internal/planner"
	"github.com/opennacc/digitize-cli/internal/resilience"
	"github.com/opennacc/digitize-cli/pkg/anthropic"
)

// Config holds extractor settings. All fields have working defaults.
type Config struct {
	Model             string
	MaxTokens         int64
	RetryLimit        int
	CallTimeout       time.Duration
	RequestsPerMinute int
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = "claude-sonnet-4-5-20250929"
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 8192
	}
	if c.RetryLimit <= 0 {
		c.RetryLimit = 3
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 3 * time.Minute
	}
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = 30
	}
	return c
}

// Extractor calls the vision model once per batch. Safe for concurrent use;
// the rate limiter and circuit breaker are shared across documents.
type Extractor struct {
	client  anthropic.Client
	cfg     Config
	limiter *rate.Limiter
	breaker *resilience.CircuitBreaker
	system  []anthropic.SystemBlock
}

// New creates an Extractor on top of an API client.
func New(client anthropic.Client, cfg Config) *Extractor {
	cfg = cfg.withDefaults()
	return &Extractor{
		client:  client,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig()),
		system:  anthropic.BuildCachedSystemBlocks(systemPrompt),
	}
}

// Batch is the outcome of one extraction call.
type Batch struct {
	Result  *model.BatchResult
	CostUSD float64
}

// ExtractBatch runs one extraction call for the given batch spec. The call
// is rate limited, retried on transient failures, and bounded by the
// per-call timeout. Assets-only batches return a result whose non-asset
// sections are empty.
func (e *Extractor) ExtractBatch(ctx context.Context, spec planner.Spec, batchPages []pages.Image, naccID, submitterID int) (*Batch, error) {
	prompt := fullPrompt(naccID, submitterID)
	if spec.Kind == planner.KindAssetsOnly {
		prompt = assetsOnlyPrompt(naccID, submitterID)
	}

	parts := make([]anthropic.ContentPart, 0, len(batchPages)+1)
	for _, img := range batchPages {
		parts = append(parts, anthropic.ImagePart(img.MediaType, img.Data))
	}
	parts = append(parts, anthropic.TextPart(prompt))

	req := anthropic.MessageRequest{
		Model:     e.cfg.Model,
		MaxTokens: e.cfg.MaxTokens,
		System:    e.system,
		Messages:  []anthropic.Message{anthropic.UserMessage(parts...)},
	}

	retryCfg := resilience.DefaultRetryConfig().WithAttempts(e.cfg.RetryLimit)
	retryCfg.OnRetry = resilience.RetryLogger("extract_batch")
	// A per-call timeout is retryable; cancellation of the outer context is
	// caught by DoVal and stops the retry loop.
	retryCfg.ShouldRetry = func(err error) bool {
		return resilience.IsTransient(err) || errors.Is(err, context.DeadlineExceeded)
	}

	resp, err := resilience.DoVal(ctx, retryCfg, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return resilience.ExecuteVal(ctx, e.breaker, func(ctx context.Context) (*anthropic.MessageResponse, error) {
			callCtx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
			defer cancel()
			return e.client.CreateMessage(callCtx, req)
		})
	})
	if err != nil {
		return nil, &ExtractionError{Reason: classifyCallError(err), Batch: spec.Index, Err: err}
	}

	resp.Usage.LogCost(e.cfg.Model, string(spec.Kind))
	if resp.StopReason == "max_tokens" {
		zap.L().Warn("extraction output truncated at token limit",
			zap.Int("batch", spec.Index),
			zap.Int64("max_tokens", e.cfg.MaxTokens))
	}

	result, err := parseBatch(resp.Text())
	if err != nil {
		return nil, &ExtractionError{Reason: ReasonMalformed, Batch: spec.Index, Err: err}
	}
	return &Batch{Result: result, CostUSD: resp.Usage.EstimateCost(e.cfg.Model)}, nil
}

func classifyCallError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	default:
		return ReasonAPIError
	}
}

// parseBatch decodes a batch response body, repairing truncated output
// before giving up.
func parseBatch(text string) (*model.BatchResult, error) {
	cleaned := cleanJSON(text)
	if cleaned == "" {
		return nil, eris.New("extract: response contains no JSON object")
	}

	var result model.BatchResult
	if err := json.Unmarshal([]byte(cleaned), &result); err == nil {
		return &result, nil
	}

	repaired := repairTruncatedJSON(cleaned)
	result = model.BatchResult{}
	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return nil, eris.Wrap(err, "extract: parse batch response")
	}
	zap.L().Warn("recovered truncated batch response",
		zap.Int("assets", len(result.Assets)))
	return &result, nil
}
