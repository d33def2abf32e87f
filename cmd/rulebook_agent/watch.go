package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/rulebook-agent/internal/scheduler"
)

var watchCommand = &cobra.Command{
	Use:   "watch",
	Short: "Run the ingestion pipeline on a schedule until interrupted",
	Long: `Starts the agent as a long-running process. Every interval it performs one
ingestion pass; after a run fails with an HTTP 4xx it pauses for the shorter
client-error backoff instead, so bad credentials or rejected payloads do not
hammer the APIs. Stop with SIGINT or SIGTERM.`,
	RunE: watchCmd,
}

var (
	watchConfigPath string
	watchVerbose    bool
)

func init() {
	watchCommand.Flags().StringVar(&watchConfigPath, "config", "", "Path to config.json file (values can be overridden by environment variables)")
	watchCommand.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "Print detailed run information")

	rootCmd.AddCommand(watchCommand)
}

func watchCmd(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadMergedConfig(watchConfigPath, watchVerbose)
	if err != nil {
		return err
	}

	a, err := buildAgent(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Printf("Watching %s every %s.\n", cfg.SiteName, cfg.Interval())

	s := scheduler.New(a.pipeline, a.auditor, cfg.Interval(), cfg.ClientErrPause())
	if err := s.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Printf("Shutting down.\n")
	return nil
}
