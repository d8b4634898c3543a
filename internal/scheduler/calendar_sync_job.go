package scheduler

import (
	"time"

	"github.com/aristath/optionsentry/internal/modules/calendar"
	"github.com/rs/zerolog"
)

// CalendarSyncJob refreshes calendar events with the latest P&L data.
type CalendarSyncJob struct {
	service *calendar.Service
	log     zerolog.Logger
}

// NewCalendarSyncJob creates a new calendar sync job
func NewCalendarSyncJob(service *calendar.Service, log zerolog.Logger) *CalendarSyncJob {
	return &CalendarSyncJob{
		service: service,
		log:     log.With().Str("job", "calendar-sync").Logger(),
	}
}

// Name returns the job name
func (j *CalendarSyncJob) Name() string {
	return "calendar-sync"
}

// Run updates all existing expiration events
func (j *CalendarSyncJob) Run() error {
	result, err := j.service.Sync(calendar.Options{UpdateAll: true}, time.Now())
	if err != nil {
		return err
	}

	j.log.Info().
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Msg("Calendar sync completed")
	return nil
}
