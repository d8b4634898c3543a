package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aristath/optionsentry/internal/modules/calendar"
	"github.com/aristath/optionsentry/internal/modules/portfolio"
	"github.com/aristath/optionsentry/internal/modules/scoring"
)

func newCalendarSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar-sync",
		Short: "Sync option expirations to Google Calendar",
		Long:  "Creates or updates one calendar event per option position on its expiration date, with the current P&L and closing recommendation in the description",
		RunE:  runCalendarSync,
	}

	cmd.Flags().Bool("create-all", false, "Create events for positions that do not have one yet")
	cmd.Flags().Bool("update-all", false, "Update existing events with the latest P&L data")
	cmd.Flags().Bool("dry-run", false, "Report what would change without touching the calendar")

	return cmd
}

func runCalendarSync(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	if cfg.GoogleCalendarToken == "" {
		return fmt.Errorf("GOOGLE_CALENDAR_TOKEN is not configured")
	}

	opts := calendar.Options{}
	opts.CreateAll, _ = cmd.Flags().GetBool("create-all")
	opts.UpdateAll, _ = cmd.Flags().GetBool("update-all")
	opts.DryRun, _ = cmd.Flags().GetBool("dry-run")

	portfolioService := portfolio.NewService(cfg.PortfolioCSV, log)
	client := calendar.NewGoogleClient(cfg.GoogleCalendarToken, log)
	service := calendar.NewService(portfolioService, scoring.NewEngine(log), client, log)

	result, err := service.Sync(opts, time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("Created: %d, Updated: %d, Skipped: %d\n", result.Created, result.Updated, result.Skipped)
	return nil
}
