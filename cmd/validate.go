package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/opennacc/digitize-cli/internal/dqs"
	"github.com/opennacc/digitize-cli/internal/export"
	"github.com/opennacc/digitize-cli/internal/gtruth"
	"github.com/opennacc/digitize-cli/internal/pages"
)

var (
	validateExtracted string
	validateTruthDir  string
	validateManifest  string
	validateReport    string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Score exported tables against ground truth",
	Long:  "Offline scoring: reads an already-exported CSV table set and the ground-truth tables, computes the quality score per declaration, and optionally writes an XLSX report. No API calls are made.",
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := pages.ReadManifest(validateManifest)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return eris.New("manifest lists no documents")
		}

		extracted := gtruth.NewLoader(validateExtracted)
		truth := gtruth.NewLoader(validateTruthDir)
		weights := scorerWeights()

		var reports []*dqs.Report
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NACC_ID\tDQS\tPASS")
		for _, doc := range docs {
			pred, err := extracted.Load(doc.NaccID, doc.SubmitterID)
			if err != nil {
				zap.L().Warn("no extracted tables for document",
					zap.Int("nacc_id", doc.NaccID), zap.Error(err))
				continue
			}
			gt, err := truth.Load(doc.NaccID, doc.SubmitterID)
			if err != nil {
				zap.L().Warn("no ground truth for document",
					zap.Int("nacc_id", doc.NaccID), zap.Error(err))
				continue
			}
			report, err := dqs.Score(pred, gt, weights)
			if err != nil {
				return eris.Wrapf(err, "score nacc_id %d", doc.NaccID)
			}
			reports = append(reports, report)
			fmt.Fprintf(w, "%d\t%.4f\t%v\n", report.NaccID, report.Overall, report.PassesThreshold)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if len(reports) == 0 {
			return eris.New("no documents could be scored")
		}

		var sum float64
		for _, r := range reports {
			sum += r.Overall
		}
		fmt.Printf("mean DQS over %d documents: %.4f\n", len(reports), sum/float64(len(reports)))

		if validateReport != "" {
			if err := export.WriteScoreReport(validateReport, reports); err != nil {
				return eris.Wrap(err, "write score report")
			}
			zap.L().Info("score report written", zap.String("path", validateReport))
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateExtracted, "extracted", "", "directory of exported CSV tables (required)")
	validateCmd.Flags().StringVar(&validateTruthDir, "ground-truth", "", "ground-truth CSV directory (required)")
	validateCmd.Flags().StringVar(&validateManifest, "manifest", "", "doc_info.csv path (required)")
	validateCmd.Flags().StringVar(&validateReport, "report", "", "write an XLSX score report to this path")
	_ = validateCmd.MarkFlagRequired("extracted")
	_ = validateCmd.MarkFlagRequired("ground-truth")
	_ = validateCmd.MarkFlagRequired("manifest")
	rootCmd.AddCommand(validateCmd)
}
