package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/opennacc/digitize-cli/internal/dqs"
	"github.com/opennacc/digitize-cli/internal/extract"
	"github.com/opennacc/digitize-cli/internal/gtruth"
	"github.com/opennacc/digitize-cli/internal/pages"
	"github.com/opennacc/digitize-cli/internal/pipeline"
	"github.com/opennacc/digitize-cli/internal/store"
	"github.com/opennacc/digitize-cli/pkg/anthropic"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.SQLitePath)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// pipelineEnv bundles everything a processing command needs.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

func (e *pipelineEnv) Close() {
	_ = e.Store.Close()
}

// initPipeline wires the store, API client, extractor, and optional ground
// truth into a ready Pipeline. truthDir may be empty.
func initPipeline(ctx context.Context, pagesDir, truthDir string) (*pipelineEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	client := anthropic.NewClient(anthropic.Config{APIKey: cfg.Anthropic.Key, BaseURL: cfg.Anthropic.BaseURL})
	ex := extract.New(client, extract.Config{
		Model:             cfg.Anthropic.Model,
		MaxTokens:         cfg.Anthropic.MaxTokens,
		RetryLimit:        cfg.Extract.RetryLimit,
		CallTimeout:       time.Duration(cfg.Extract.TimeoutSecs) * time.Second,
		RequestsPerMinute: cfg.Extract.RequestsPerMinute,
	})

	var truth *gtruth.Loader
	if truthDir != "" {
		truth = gtruth.NewLoader(truthDir)
	}

	p := pipeline.New(st, &pages.DirProvider{Root: pagesDir}, ex, truth, pipeline.Options{
		MaxPagesPerBatch:  cfg.Extract.MaxPagesPerBatch,
		BatchCacheTTL:     time.Duration(cfg.Extract.CacheTTLHours) * time.Hour,
		Weights:           scorerWeights(),
		MaxConcurrentDocs: cfg.Batch.MaxConcurrentDocuments,
	})

	return &pipelineEnv{Store: st, Pipeline: p}, nil
}

func scorerWeights() dqs.Weights {
	return dqs.Weights{
		SubmitterSpouse: cfg.Scorer.WeightSubmitterSpouse,
		Statements:      cfg.Scorer.WeightStatements,
		Assets:          cfg.Scorer.WeightAssets,
		Relatives:       cfg.Scorer.WeightRelatives,
	}
}
