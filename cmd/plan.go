package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/opennacc/digitize-cli/internal/pages"
	"github.com/opennacc/digitize-cli/internal/planner"
)

var (
	planPagesDir   string
	planTotalPages int
)

var planCmd = &cobra.Command{
	Use:   "plan [doc-id]",
	Short: "Preview the batch split for a document",
	Long:  "Prints the batch plan without calling the API. Give a doc ID with --pages-dir to count its rendered pages, or --total-pages for a hypothetical document.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		total := planTotalPages
		if len(args) == 1 {
			if planPagesDir == "" {
				return eris.New("--pages-dir is required when a doc ID is given")
			}
			provider := &pages.DirProvider{Root: planPagesDir}
			imgs, err := provider.Pages(args[0])
			if err != nil {
				return err
			}
			total = len(imgs)
		}
		if total <= 0 {
			return eris.New("give a doc ID or --total-pages")
		}

		specs, err := planner.Plan(total, cfg.Extract.MaxPagesPerBatch)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "BATCH\tPAGES\tKIND")
		for _, s := range specs {
			fmt.Fprintf(w, "%d\t%d-%d\t%s\n", s.Index, s.StartPage, s.EndPage, s.Kind)
		}
		return w.Flush()
	},
}

func init() {
	planCmd.Flags().StringVar(&planPagesDir, "pages-dir", "", "directory of rendered page images, one subdirectory per document")
	planCmd.Flags().IntVar(&planTotalPages, "total-pages", 0, "plan for a page count instead of a real document")
	rootCmd.AddCommand(planCmd)
}
