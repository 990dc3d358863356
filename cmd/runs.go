package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/opennacc/digitize-cli/internal/model"
	"github.com/opennacc/digitize-cli/internal/monitoring"
	"github.com/opennacc/digitize-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect digitization run history",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List digitization runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status: model.RunStatus(status),
			Limit:  limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show full details of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

var runsDocsCmd = &cobra.Command{
	Use:   "documents <run-id>",
	Short: "List the documents of a run with their outcomes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		docs, err := st.ListDocuments(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs documents")
		}
		if len(docs) == 0 {
			fmt.Fprintln(os.Stderr, "No documents found.")
			return nil
		}

		formatDocumentsList(os.Stdout, docs)
		return nil
	},
}

var runsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate run statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		snap, err := monitoring.NewCollector(st).Collect(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "runs stats")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	},
}

func formatRunsList(w io.Writer, runs []model.Run) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN_ID\tSTATUS\tDOCS\tOK\tPARTIAL\tFAILED\tCOST_USD\tMEAN_DQS\tCREATED")
	for _, r := range runs {
		docs, ok, partial, failed := "-", "-", "-", "-"
		cost, mean := "-", "-"
		if r.Result != nil {
			docs = fmt.Sprintf("%d", r.Result.Documents)
			ok = fmt.Sprintf("%d", r.Result.Succeeded)
			partial = fmt.Sprintf("%d", r.Result.Partial)
			failed = fmt.Sprintf("%d", r.Result.Failed)
			cost = fmt.Sprintf("%.4f", r.Result.TotalCostUSD)
			if r.Result.MeanScore != nil {
				mean = fmt.Sprintf("%.4f", *r.Result.MeanScore)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Status, docs, ok, partial, failed, cost, mean,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
	tw.Flush() //nolint:errcheck
}

func formatDocumentsList(w io.Writer, docs []model.DocumentRecord) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DOC_ID\tNACC_ID\tSTATUS\tBATCHES\tWARNINGS\tDQS\tCOST_USD\tERROR")
	for _, d := range docs {
		batches, warnings, score, cost, errMsg := "-", "-", "-", "-", ""
		if d.Outcome != nil {
			batches = fmt.Sprintf("%d", d.Outcome.Batches)
			warnings = fmt.Sprintf("%d", d.Outcome.Warnings)
			cost = fmt.Sprintf("%.4f", d.Outcome.CostUSD)
			if d.Outcome.Score != nil {
				score = fmt.Sprintf("%.4f", *d.Outcome.Score)
			}
			errMsg = d.Outcome.Error
			if len(errMsg) > 60 {
				errMsg = errMsg[:60] + "..."
			}
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.DocID, d.NaccID, d.Status, batches, warnings, score, cost, errMsg)
	}
	tw.Flush() //nolint:errcheck
}

func init() {
	runsListCmd.Flags().String("status", "", "filter by status (queued|running|complete|failed)")
	runsListCmd.Flags().Int("limit", 20, "max rows")
	runsStatsCmd.Flags().Int("limit", 100, "number of recent runs to aggregate")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsStatsCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDocsCmd)
	rootCmd.AddCommand(runsCmd)
}
