// Package pipeline orchestrates document digitization end to end: plan the
// batches, run the vision extraction per batch, merge the results, and score
// against ground truth when it is available.
package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/opennacc/digitize-cli/internal/dqs"
	"github.com/opennacc/digitize-cli/internal/extract"
	"github.com/opennacc/digitize-cli/internal/gtruth"
	"github.com/opennacc/digitize-cli/internal/merge"
	"github.com/opennacc/digitize-cli/internal/model"
	"github.com/opennacc/digitize-cli/internal/pages"
	"github.com/opennacc/digitize-cli/internal/planner"
	"github.com/opennacc/digitize-cli/internal/store"
)

// Options tunes the orchestration. Zero values get working defaults.
type Options struct {
	MaxPagesPerBatch  int
	BatchCacheTTL     time.Duration
	Weights           dqs.Weights
	MaxConcurrentDocs int
}

func (o Options) withDefaults() Options {
	if o.MaxPagesPerBatch <= 0 {
		o.MaxPagesPerBatch = 25
	}
	if o.BatchCacheTTL <= 0 {
		o.BatchCacheTTL = 7 * 24 * time.Hour
	}
	if o.Weights == (dqs.Weights{}) {
		o.Weights = dqs.DefaultWeights()
	}
	if o.MaxConcurrentDocs <= 0 {
		o.MaxConcurrentDocs = 4
	}
	return o
}

// Extractor is the extraction seam; *extract.Extractor satisfies it.
type Extractor interface {
	ExtractBatch(ctx context.Context, spec planner.Spec, batchPages []pages.Image, naccID, submitterID int) (*extract.Batch, error)
}

// Pipeline processes documents. Safe for concurrent use.
type Pipeline struct {
	store     store.Store
	provider  pages.Provider
	extractor Extractor
	truth     *gtruth.Loader // nil when no ground truth is configured
	opts      Options
}

// New creates a Pipeline. truth may be nil; documents are then not scored.
func New(st store.Store, provider pages.Provider, ex Extractor, truth *gtruth.Loader, opts Options) *Pipeline {
	return &Pipeline{
		store:     st,
		provider:  provider,
		extractor: ex,
		truth:     truth,
		opts:      opts.withDefaults(),
	}
}

// DocumentResult is the outcome of processing one document.
type DocumentResult struct {
	Doc       pages.Document
	RecordSet *model.DocumentRecordSet
	Warnings  []merge.Warning
	Report    *dqs.Report
	Batches   int
	CostUSD   float64
	Status    model.DocStatus
}

// ProcessDocument digitizes one document: loads its pages, plans the batch
// split, extracts every batch, merges, and scores. A failed assets-only
// batch degrades the document to partial instead of failing it; a failed
// FULL batch is fatal because every non-asset section would be missing.
func (p *Pipeline) ProcessDocument(ctx context.Context, doc pages.Document) (*DocumentResult, error) {
	log := zap.L().With(zap.String("doc_id", doc.DocID), zap.Int("nacc_id", doc.NaccID))

	imgs, err := p.provider.Pages(doc.DocID)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: pages for %s", doc.DocID)
	}

	specs, err := planner.Plan(len(imgs), p.opts.MaxPagesPerBatch)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: plan %s", doc.DocID)
	}
	log.Info("processing document", zap.Int("pages", len(imgs)), zap.Int("batches", len(specs)))

	res := &DocumentResult{Doc: doc, Batches: len(specs), Status: model.DocStatusSuccess}

	results := make([]*model.BatchResult, len(specs))
	for _, spec := range specs {
		batch, err := p.extractBatch(ctx, doc, spec, imgs)
		if err != nil {
			if spec.Kind == planner.KindFull {
				return nil, eris.Wrapf(err, "pipeline: full batch for %s", doc.DocID)
			}
			if ctx.Err() != nil {
				return nil, eris.Wrapf(err, "pipeline: batch %d for %s", spec.Index, doc.DocID)
			}
			log.Warn("assets-only batch failed, continuing without it",
				zap.Int("batch", spec.Index), zap.Error(err))
			res.Warnings = append(res.Warnings, merge.Warning{
				Batch:   spec.Index,
				Message: "extraction failed, assets from this page range are missing",
			})
			res.Status = model.DocStatusPartial
			results[spec.Index] = &model.BatchResult{}
			continue
		}
		results[spec.Index] = batch.Result
		res.CostUSD += batch.CostUSD
	}

	merged, warnings, err := merge.Merge(results, specs, doc.NaccID, doc.SubmitterID)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: merge %s", doc.DocID)
	}
	res.RecordSet = merged
	res.Warnings = append(res.Warnings, warnings...)
	for _, w := range warnings {
		log.Warn("merge warning", zap.Int("batch", w.Batch), zap.String("message", w.Message))
	}

	if p.truth != nil {
		report, err := p.score(merged)
		if err != nil {
			log.Warn("scoring skipped", zap.Error(err))
		} else {
			res.Report = report
			log.Info("document scored",
				zap.Float64("overall", report.Overall),
				zap.Bool("passes", report.PassesThreshold))
		}
	}
	return res, nil
}

// extractBatch runs one batch through the cache: a fresh cached payload is
// reused, otherwise the model is called and the raw result cached.
func (p *Pipeline) extractBatch(ctx context.Context, doc pages.Document, spec planner.Spec, imgs []pages.Image) (*extract.Batch, error) {
	if p.store != nil {
		payload, err := p.store.GetCachedBatch(ctx, doc.DocID, spec.Index, string(spec.Kind))
		if err != nil {
			zap.L().Warn("batch cache read failed", zap.String("doc_id", doc.DocID), zap.Error(err))
		} else if payload != nil {
			var cached model.BatchResult
			if err := json.Unmarshal(payload, &cached); err == nil {
				zap.L().Debug("batch served from cache",
					zap.String("doc_id", doc.DocID), zap.Int("batch", spec.Index))
				return &extract.Batch{Result: &cached}, nil
			}
		}
	}

	batch, err := p.extractor.ExtractBatch(ctx, spec, pages.Slice(imgs, spec.StartPage, spec.EndPage), doc.NaccID, doc.SubmitterID)
	if err != nil {
		return nil, err
	}

	if p.store != nil {
		if payload, err := json.Marshal(batch.Result); err == nil {
			if err := p.store.SetCachedBatch(ctx, doc.DocID, spec.Index, string(spec.Kind), payload, p.opts.BatchCacheTTL); err != nil {
				zap.L().Warn("batch cache write failed", zap.String("doc_id", doc.DocID), zap.Error(err))
			}
		}
	}
	return batch, nil
}

func (p *Pipeline) score(doc *model.DocumentRecordSet) (*dqs.Report, error) {
	truth, err := p.truth.Load(doc.NaccID, doc.SubmitterID)
	if err != nil {
		if eris.Is(err, gtruth.ErrNotFound) {
			return nil, eris.Wrapf(err, "no ground truth for nacc_id %d", doc.NaccID)
		}
		return nil, err
	}
	return dqs.Score(doc, truth, p.opts.Weights)
}
