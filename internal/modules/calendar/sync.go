package calendar

import (
	"fmt"
	"time"

	"github.com/aristath/optionsentry/internal/modules/portfolio"
	"github.com/aristath/optionsentry/internal/modules/scoring"
	"github.com/rs/zerolog"
)

// Options controls what a sync run is allowed to do.
type Options struct {
	CreateAll bool
	UpdateAll bool
	DryRun    bool
}

// Result counts the outcome of a sync run.
type Result struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Service syncs scored option positions to the calendar.
type Service struct {
	portfolio *portfolio.Service
	engine    *scoring.Engine
	client    Client
	log       zerolog.Logger
}

// NewService creates a new calendar sync service
func NewService(p *portfolio.Service, engine *scoring.Engine, client Client, log zerolog.Logger) *Service {
	return &Service{
		portfolio: p,
		engine:    engine,
		client:    client,
		log:       log.With().Str("service", "calendar-sync").Logger(),
	}
}

// Sync creates or updates one calendar event per option position. Without
// CreateAll, missing events are not created; without UpdateAll, existing
// events are left untouched. DryRun counts what would happen without
// touching the calendar.
func (s *Service) Sync(opts Options, now time.Time) (*Result, error) {
	if !opts.CreateAll && !opts.UpdateAll {
		return nil, fmt.Errorf("nothing to do: enable create-all or update-all")
	}

	p, err := s.portfolio.Load(now)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	result := &Result{}
	if len(p.Options) == 0 {
		s.log.Info().Msg("No options in portfolio, nothing to sync")
		return result, nil
	}

	scored := s.engine.ScoreAll(p.Options)
	s.log.Info().Int("count", len(scored)).Bool("dry_run", opts.DryRun).Msg("Syncing option expirations")

	for _, pos := range scored {
		event := BuildEvent(pos, now)

		if opts.DryRun {
			if opts.CreateAll {
				s.log.Info().Str("title", event.Summary).Msg("[DRY RUN] Would create event")
				result.Created++
			} else {
				s.log.Info().Str("title", event.Summary).Msg("[DRY RUN] Would update event")
				result.Updated++
			}
			continue
		}

		eventID, err := s.client.FindEvent(event.Summary, pos.ExpirationDate)
		if err != nil {
			s.log.Error().Err(err).Str("symbol", pos.Symbol).Msg("Event lookup failed")
			result.Skipped++
			continue
		}

		switch {
		case eventID != "" && opts.UpdateAll:
			if err := s.client.UpdateEvent(eventID, event); err != nil {
				s.log.Error().Err(err).Str("title", event.Summary).Msg("Failed to update event")
				result.Skipped++
				continue
			}
			s.log.Info().Str("title", event.Summary).Msg("Updated event")
			result.Updated++

		case eventID != "":
			s.log.Debug().Str("title", event.Summary).Msg("Event already exists, skipping")
			result.Skipped++

		case opts.CreateAll:
			if err := s.client.CreateEvent(event); err != nil {
				s.log.Error().Err(err).Str("title", event.Summary).Msg("Failed to create event")
				result.Skipped++
				continue
			}
			s.log.Info().Str("title", event.Summary).Msg("Created event")
			result.Created++

		default:
			s.log.Debug().Str("title", event.Summary).Msg("No existing event, skipping")
			result.Skipped++
		}
	}

	s.log.Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Msg("Sync complete")

	return result, nil
}
