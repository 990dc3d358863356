package pipeline

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/opennacc/digitize-cli/internal/model"
	"github.com/opennacc/digitize-cli/internal/pages"
)

// RunOutcome pairs the persisted run record with the per-document results
// that finished successfully or partially.
type RunOutcome struct {
	Run     *model.Run
	Results []*DocumentResult
}

// RunAll processes the documents concurrently and records the run in the
// store. Individual document failures are recorded on the document row and
// do not abort the run; only context cancellation stops it early.
func (p *Pipeline) RunAll(ctx context.Context, params model.RunParams, docs []pages.Document) (*RunOutcome, error) {
	run, err := p.store.CreateRun(ctx, params)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}
	if err := p.store.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning); err != nil {
		return nil, eris.Wrap(err, "pipeline: mark run running")
	}

	zap.L().Info("starting run",
		zap.String("run_id", run.ID),
		zap.Int("documents", len(docs)),
		zap.Int("concurrency", p.opts.MaxConcurrentDocs),
	)

	var (
		succeeded, partial, failed atomic.Int64

		mu        sync.Mutex
		results   []*DocumentResult
		totalCost float64
		scoreSum  float64
		scored    int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.MaxConcurrentDocs)

	for _, doc := range docs {
		g.Go(func() error {
			log := zap.L().With(zap.String("run_id", run.ID), zap.String("doc_id", doc.DocID))

			rec, err := p.store.CreateDocument(gctx, run.ID, doc.DocID, doc.NaccID)
			if err != nil {
				return eris.Wrapf(err, "pipeline: create document %s", doc.DocID)
			}

			res, err := p.ProcessDocument(gctx, doc)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failed.Add(1)
				log.Error("document failed", zap.Error(err))
				outcome := model.DocumentOutcome{Status: model.DocStatusFailed, Error: err.Error()}
				if sErr := p.store.CompleteDocument(gctx, rec.ID, outcome); sErr != nil {
					log.Warn("failed to record document outcome", zap.Error(sErr))
				}
				return nil // don't abort the run on individual failure
			}

			outcome := model.DocumentOutcome{
				Status:   res.Status,
				Batches:  res.Batches,
				Warnings: len(res.Warnings),
				CostUSD:  res.CostUSD,
			}
			if res.Report != nil {
				outcome.Score = &res.Report.Overall
			}
			if err := p.store.CompleteDocument(gctx, rec.ID, outcome); err != nil {
				log.Warn("failed to record document outcome", zap.Error(err))
			}

			switch res.Status {
			case model.DocStatusPartial:
				partial.Add(1)
			default:
				succeeded.Add(1)
			}

			mu.Lock()
			results = append(results, res)
			totalCost += res.CostUSD
			if res.Report != nil {
				scoreSum += res.Report.Overall
				scored++
			}
			mu.Unlock()

			log.Info("document complete",
				zap.String("status", string(res.Status)),
				zap.Int("batches", res.Batches),
				zap.Int("warnings", len(res.Warnings)),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if sErr := p.store.UpdateRunStatus(context.WithoutCancel(ctx), run.ID, model.RunStatusFailed); sErr != nil {
			zap.L().Warn("failed to mark run failed", zap.String("run_id", run.ID), zap.Error(sErr))
		}
		return nil, eris.Wrap(err, "pipeline: run")
	}

	result := &model.RunResult{
		Documents:    len(docs),
		Succeeded:    int(succeeded.Load()),
		Partial:      int(partial.Load()),
		Failed:       int(failed.Load()),
		TotalCostUSD: totalCost,
	}
	if scored > 0 {
		mean := scoreSum / float64(scored)
		result.MeanScore = &mean
	}
	if err := p.store.UpdateRunResult(ctx, run.ID, result); err != nil {
		return nil, eris.Wrap(err, "pipeline: record run result")
	}

	run, err = p.store.GetRun(ctx, run.ID)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: reload run")
	}

	zap.L().Info("run complete",
		zap.String("run_id", run.ID),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("partial", result.Partial),
		zap.Int("failed", result.Failed),
		zap.Float64("total_cost_usd", result.TotalCostUSD),
	)
	return &RunOutcome{Run: run, Results: results}, nil
}
