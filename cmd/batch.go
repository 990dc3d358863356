package main

import (
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/opennacc/digitize-cli/internal/dqs"
	"github.com/opennacc/digitize-cli/internal/export"
	"github.com/opennacc/digitize-cli/internal/model"
	"github.com/opennacc/digitize-cli/internal/pages"
)

var (
	batchPagesDir string
	batchManifest string
	batchTruthDir string
	batchOutDir   string
	batchLimit    int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Digitize every declaration in a manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		manifest := batchManifest
		if manifest == "" {
			manifest = filepath.Join(batchPagesDir, "doc_info.csv")
		}
		docs, err := pages.ReadManifest(manifest)
		if err != nil {
			return err
		}
		if batchLimit > 0 && len(docs) > batchLimit {
			docs = docs[:batchLimit]
		}
		if len(docs) == 0 {
			zap.L().Info("manifest lists no documents")
			return nil
		}

		env, err := initPipeline(ctx, batchPagesDir, batchTruthDir)
		if err != nil {
			return err
		}
		defer env.Close()

		params := model.RunParams{
			PagesDir:         batchPagesDir,
			OutputDir:        batchOutDir,
			GroundTruthDir:   batchTruthDir,
			Model:            cfg.Anthropic.Model,
			MaxPagesPerBatch: cfg.Extract.MaxPagesPerBatch,
		}
		out, err := env.Pipeline.RunAll(ctx, params, docs)
		if err != nil {
			return eris.Wrap(err, "batch run")
		}

		if batchOutDir != "" {
			exp := export.NewExporter(batchOutDir)
			var reports []*dqs.Report
			for _, res := range out.Results {
				exp.Add(res.RecordSet)
				if res.Report != nil {
					reports = append(reports, res.Report)
				}
			}
			if err := exp.Flush(); err != nil {
				return eris.Wrap(err, "export tables")
			}
			if len(reports) > 0 {
				reportPath := filepath.Join(batchOutDir, "dqs_report.xlsx")
				if err := export.WriteScoreReport(reportPath, reports); err != nil {
					return eris.Wrap(err, "write score report")
				}
				zap.L().Info("score report written", zap.String("path", reportPath))
			}
		}

		result := out.Run.Result
		zap.L().Info("batch complete",
			zap.String("run_id", out.Run.ID),
			zap.Int("documents", result.Documents),
			zap.Int("succeeded", result.Succeeded),
			zap.Int("partial", result.Partial),
			zap.Int("failed", result.Failed),
			zap.Float64("total_cost_usd", result.TotalCostUSD),
		)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchPagesDir, "pages-dir", "", "directory of rendered page images (required)")
	batchCmd.Flags().StringVar(&batchManifest, "manifest", "", "doc_info.csv path (default <pages-dir>/doc_info.csv)")
	batchCmd.Flags().StringVar(&batchTruthDir, "ground-truth", "", "ground-truth CSV directory; enables scoring")
	batchCmd.Flags().StringVar(&batchOutDir, "out", "", "write the CSV table set and score report here")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of documents to process")
	_ = batchCmd.MarkFlagRequired("pages-dir")
	rootCmd.AddCommand(batchCmd)
}
