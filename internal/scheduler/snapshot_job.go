package scheduler

import (
	"time"

	"github.com/aristath/optionsentry/internal/modules/snapshots"
	"github.com/rs/zerolog"
)

// SnapshotJob captures a daily analysis snapshot into the history store.
type SnapshotJob struct {
	service *snapshots.Service
	log     zerolog.Logger
}

// NewSnapshotJob creates a new snapshot job
func NewSnapshotJob(service *snapshots.Service, log zerolog.Logger) *SnapshotJob {
	return &SnapshotJob{
		service: service,
		log:     log.With().Str("job", "snapshot").Logger(),
	}
}

// Name returns the job name
func (j *SnapshotJob) Name() string {
	return "snapshot"
}

// Run captures one snapshot
func (j *SnapshotJob) Run() error {
	id, err := j.service.Capture(time.Now().UTC())
	if err != nil {
		return err
	}

	j.log.Info().Str("uuid", id).Msg("Daily snapshot captured")
	return nil
}
