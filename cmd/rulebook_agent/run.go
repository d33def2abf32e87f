package main

import (
	"context"

	"github.com/spf13/cobra"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Execute one ingestion pass and exit",
	Long: `Performs a single pass over the circulars catalog: diff against the stored
watermark, download and OCR each new circular, decompose it into compliance
rules, and publish the result to the rulebook inventory.

Configuration can be loaded from a JSON file using --config. Environment
variables override config file values.`,
	RunE: runOnceCmd,
}

var (
	runConfigPath string
	runVerbose    bool
)

func init() {
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by environment variables)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed run information")

	rootCmd.AddCommand(runCommand)
}

func runOnceCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadMergedConfig(runConfigPath, runVerbose)
	if err != nil {
		return err
	}

	a, err := buildAgent(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	a.auditor.RunStarted(ctx)
	if _, err := a.pipeline.Run(ctx); err != nil {
		a.auditor.RunFailed(ctx, err)
		return err
	}
	a.auditor.RunSucceeded(ctx)
	return nil
}
