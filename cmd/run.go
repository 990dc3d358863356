package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/opennacc/digitize-cli/internal/export"
	"github.com/opennacc/digitize-cli/internal/pages"
)

var (
	runPagesDir    string
	runTruthDir    string
	runOutDir      string
	runDocID       string
	runNaccID      int
	runSubmitterID int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Digitize a single declaration",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx, runPagesDir, runTruthDir)
		if err != nil {
			return err
		}
		defer env.Close()

		doc := pages.Document{DocID: runDocID, NaccID: runNaccID, SubmitterID: runSubmitterID}
		res, err := env.Pipeline.ProcessDocument(ctx, doc)
		if err != nil {
			return eris.Wrap(err, "process document")
		}

		if runOutDir != "" {
			exp := export.NewExporter(runOutDir)
			exp.Add(res.RecordSet)
			if err := exp.Flush(); err != nil {
				return eris.Wrap(err, "export tables")
			}
			zap.L().Info("tables exported", zap.String("dir", runOutDir))
		}

		summary := map[string]any{
			"doc_id":   doc.DocID,
			"nacc_id":  doc.NaccID,
			"status":   res.Status,
			"batches":  res.Batches,
			"warnings": res.Warnings,
			"assets":   len(res.RecordSet.Assets),
			"cost_usd": res.CostUSD,
		}
		if res.Report != nil {
			summary["dqs"] = res.Report
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	runCmd.Flags().StringVar(&runPagesDir, "pages-dir", "", "directory of rendered page images (required)")
	runCmd.Flags().StringVar(&runDocID, "doc", "", "document ID, the subdirectory name under --pages-dir (required)")
	runCmd.Flags().IntVar(&runNaccID, "nacc-id", 0, "NACC declaration ID (required)")
	runCmd.Flags().IntVar(&runSubmitterID, "submitter-id", 0, "submitter ID")
	runCmd.Flags().StringVar(&runTruthDir, "ground-truth", "", "ground-truth CSV directory; enables scoring")
	runCmd.Flags().StringVar(&runOutDir, "out", "", "write the 14-table CSV set to this directory")
	_ = runCmd.MarkFlagRequired("pages-dir")
	_ = runCmd.MarkFlagRequired("doc")
	_ = runCmd.MarkFlagRequired("nacc-id")
	rootCmd.AddCommand(runCmd)
}
