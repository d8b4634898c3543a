package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aristath/optionsentry/internal/clients/yahoo"
	"github.com/aristath/optionsentry/internal/database"
	"github.com/aristath/optionsentry/internal/modules/calendar"
	"github.com/aristath/optionsentry/internal/modules/portfolio"
	"github.com/aristath/optionsentry/internal/modules/recommendations"
	"github.com/aristath/optionsentry/internal/modules/scoring"
	"github.com/aristath/optionsentry/internal/modules/snapshots"
	"github.com/aristath/optionsentry/internal/modules/summary"
	"github.com/aristath/optionsentry/internal/scheduler"
	"github.com/aristath/optionsentry/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long:  "Starts the HTTP API with the portfolio, recommendation, market summary and snapshot endpoints, plus the background snapshot and calendar sync jobs",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	log.Info().Msg("Starting optionsentry")

	// Core services. The portfolio service re-reads the CSV on demand, so
	// an updated export is picked up without a restart.
	portfolioService := portfolio.NewService(cfg.PortfolioCSV, log)
	engine := scoring.NewEngine(log)
	analyzer := recommendations.NewAnalyzer(portfolioService, engine, log)
	summaryService := summary.NewService(yahoo.NewClient(log), portfolioService, log)

	// Snapshot store
	db, err := database.New(database.Config{
		Path: cfg.SnapshotDBPath(),
		Name: "snapshots",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open snapshot database")
	}
	defer db.Close()

	repo := snapshots.NewRepository(db.Conn(), log)
	if err := repo.InitSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize snapshot schema")
	}
	snapshotService := snapshots.NewService(analyzer, repo, cfg.SnapshotKeep, log)

	// Background jobs
	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.SnapshotSchedule, scheduler.NewSnapshotJob(snapshotService, log)); err != nil {
		log.Fatal().Err(err).Msg("Invalid snapshot schedule")
	}

	if cfg.GoogleCalendarToken != "" {
		calendarClient := calendar.NewGoogleClient(cfg.GoogleCalendarToken, log)
		calendarService := calendar.NewService(portfolioService, engine, calendarClient, log)
		if err := sched.AddJob(cfg.CalendarSyncSchedule, scheduler.NewCalendarSyncJob(calendarService, log)); err != nil {
			log.Fatal().Err(err).Msg("Invalid calendar sync schedule")
		}
	} else {
		log.Info().Msg("GOOGLE_CALENDAR_TOKEN not set, calendar sync job disabled")
	}

	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:       log,
		Port:      cfg.Port,
		Portfolio: portfolioService,
		Analyzer:  analyzer,
		Summary:   summaryService,
		Snapshots: snapshotService,
		DB:        db,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
	return nil
}
