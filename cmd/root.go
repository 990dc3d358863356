package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/opennacc/digitize-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "digitize-cli",
	Short: "Thai asset-declaration digitization pipeline",
	Long:  "Extracts structured records from scanned NACC asset declarations via batched Claude vision calls, merges batch output, exports the table set, and scores it against ground truth.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
