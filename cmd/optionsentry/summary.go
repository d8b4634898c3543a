package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aristath/optionsentry/internal/clients/yahoo"
	"github.com/aristath/optionsentry/internal/modules/portfolio"
	"github.com/aristath/optionsentry/internal/modules/summary"
)

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a market summary as JSON",
		Long:  "Fetches quotes for the watched indices, stocks and portfolio holdings and prints the summary to stdout. Exits non-zero when any quote could not be fetched.",
		RunE:  runSummary,
	}

	cmd.Flags().Bool("test", false, "Print a fixed sample payload without fetching quotes")

	return cmd
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	testMode, _ := cmd.Flags().GetBool("test")

	var s *summary.Summary
	if testMode {
		s = summary.Sample(time.Now())
	} else {
		portfolioService := portfolio.NewService(cfg.PortfolioCSV, log)
		service := summary.NewService(yahoo.NewClient(log), portfolioService, log)
		s = service.Build(time.Now())
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return err
	}

	if s.Status == summary.StatusPartialFailure {
		os.Exit(1)
	}
	return nil
}
