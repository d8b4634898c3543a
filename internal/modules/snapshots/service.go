package snapshots

import (
	"fmt"
	"time"

	"github.com/aristath/optionsentry/internal/modules/recommendations"
	"github.com/aristath/optionsentry/internal/utils"
	"github.com/rs/zerolog"
)

// Service captures analysis reports into the snapshot store.
type Service struct {
	analyzer *recommendations.Analyzer
	repo     *Repository
	keep     int
	log      zerolog.Logger
}

// NewService creates a new snapshot service. keep bounds the retained
// history; older snapshots are pruned after each capture.
func NewService(analyzer *recommendations.Analyzer, repo *Repository, keep int, log zerolog.Logger) *Service {
	if keep <= 0 {
		keep = 365
	}
	return &Service{
		analyzer: analyzer,
		repo:     repo,
		keep:     keep,
		log:      log.With().Str("service", "snapshots").Logger(),
	}
}

// Capture runs the analysis and stores the resulting report.
func (s *Service) Capture(now time.Time) (string, error) {
	defer utils.OperationTimer("snapshot_capture", s.log)()

	report, err := s.analyzer.Analyze(now)
	if err != nil {
		return "", fmt.Errorf("analysis failed: %w", err)
	}

	id, err := s.repo.Save(report, now)
	if err != nil {
		return "", err
	}

	if _, err := s.repo.Prune(s.keep); err != nil {
		s.log.Warn().Err(err).Msg("Snapshot pruning failed")
	}

	return id, nil
}

// List returns stored snapshot metadata, newest first.
func (s *Service) List(limit int) ([]Meta, error) {
	return s.repo.List(limit)
}

// Get loads one stored snapshot by UUID.
func (s *Service) Get(id string) (*Snapshot, error) {
	return s.repo.Get(id)
}
