package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aristath/optionsentry/internal/modules/portfolio"
	"github.com/aristath/optionsentry/internal/modules/recommendations"
	"github.com/aristath/optionsentry/internal/modules/scoring"
)

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the portfolio and print the report as JSON",
		Long:  "Reads the portfolio CSV, scores every option position and prints the full recommendation report to stdout",
		RunE:  runAnalyze,
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	portfolioService := portfolio.NewService(cfg.PortfolioCSV, log)
	analyzer := recommendations.NewAnalyzer(portfolioService, scoring.NewEngine(log), log)

	report, err := analyzer.Analyze(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
