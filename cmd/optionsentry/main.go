// Package main is the entry point for optionsentry, an options portfolio
// analyzer. It parses brokerage CSV exports, scores option positions by
// closing priority and serves the results over HTTP, as point-in-time
// snapshots and as Google Calendar expiration events.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/optionsentry/internal/config"
	"github.com/aristath/optionsentry/pkg/logger"
)

const version = "v1.0.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "optionsentry",
		Short:   "Options portfolio analyzer",
		Version: version,
		Long: `optionsentry analyzes an exported options portfolio CSV, scores every
option position by how urgently it should be closed and groups the
results into actionable recommendation categories.

Run 'optionsentry serve' for the HTTP API, or use the one-shot
commands (analyze, summary, calendar-sync) for scripted use.`,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newCalendarSyncCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the application logger.
func bootstrap() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Logger{}, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})
	logger.SetGlobalLogger(log)

	return cfg, log, nil
}
