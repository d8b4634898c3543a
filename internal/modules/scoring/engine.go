// Package scoring computes urgency and priority scores for option positions
// and derives the recommended action for each.
package scoring

import (
	"fmt"
	"math"

	"github.com/aristath/optionsentry/internal/domain"
	"github.com/rs/zerolog"
)

// Urgency tiers derived from the combined priority score.
const (
	UrgencyCritical = "CRITICAL"
	UrgencyHigh     = "HIGH"
	UrgencyMedium   = "MEDIUM"
	UrgencyLow      = "LOW"
)

// Combined score weights. Time pressure dominates; the two loss components
// split the remainder evenly.
const (
	timeWeight        = 0.4
	lossDollarWeight  = 0.3
	lossPercentWeight = 0.3
)

// Recommendation carries the per-position scores and the derived action.
type Recommendation struct {
	TimeUrgencyScore      float64 `json:"time_urgency_score"`
	LossDollarScore       float64 `json:"loss_dollar_score"`
	LossPercentScore      float64 `json:"loss_percent_score"`
	CombinedPriorityScore float64 `json:"combined_priority_score"`
	UrgencyLevel          string  `json:"urgency_level"`
	RecommendedAction     string  `json:"recommended_action"`
	CostToClose           float64 `json:"cost_to_close"`
}

// ScoredPosition is an option position augmented with its recommendation.
// Immutable once computed; every analysis run rebuilds the whole set.
type ScoredPosition struct {
	domain.OptionPosition
	Recommendation
}

// Engine scores option positions. Pure and stateless: the same inputs always
// produce the same scores.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates a new scoring engine
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{
		log: log.With().Str("service", "scoring").Logger(),
	}
}

// TimeUrgencyScore maps days-to-expiration onto a 0-100 urgency scale.
// Step function below 60 days, linear decay from 40 to 0 between 60 and 180
// days. Already-expired contracts (negative days) land in the <7 bucket and
// score maximum urgency.
func TimeUrgencyScore(daysToExpiration int) float64 {
	days := float64(daysToExpiration)
	switch {
	case days < 7:
		return 100
	case days <= 14:
		return 80
	case days <= 30:
		return 60
	case days <= 60:
		return 40
	case days >= 180:
		return 0
	default:
		return math.Max(0, 40-((days-60)*40/120))
	}
}

// MaxLossDollars returns the largest absolute dollar loss across the given
// options, or 0 when nothing is losing money. This portfolio-wide maximum is
// the normalizer for the loss-dollar score.
func MaxLossDollars(options []domain.OptionPosition) float64 {
	maxLoss := 0.0
	for _, opt := range options {
		if opt.TotalGain < 0 {
			maxLoss = math.Max(maxLoss, math.Abs(opt.TotalGain))
		}
	}
	return maxLoss
}

// Score computes the recommendation for one option position given the
// portfolio-wide maximum dollar loss. Total function: any finite numeric
// input yields a result.
func (e *Engine) Score(opt domain.OptionPosition, maxLossDollars float64) Recommendation {
	timeScore := TimeUrgencyScore(opt.DaysToExpiration)

	lossDollarScore := 0.0
	if opt.TotalGain < 0 && maxLossDollars > 0 {
		lossDollarScore = (math.Abs(opt.TotalGain) / maxLossDollars) * 100
	}

	lossPercentScore := 0.0
	if opt.TotalGainPercent < 0 {
		lossPercentScore = math.Min(100, math.Abs(opt.TotalGainPercent))
	}

	combined := (timeScore * timeWeight) + (lossDollarScore * lossDollarWeight) + (lossPercentScore * lossPercentWeight)

	var urgency string
	switch {
	case combined >= 90:
		urgency = UrgencyCritical
	case combined >= 70:
		urgency = UrgencyHigh
	case combined >= 50:
		urgency = UrgencyMedium
	default:
		urgency = UrgencyLow
	}

	return Recommendation{
		TimeUrgencyScore:      round(timeScore, 2),
		LossDollarScore:       round(lossDollarScore, 2),
		LossPercentScore:      round(lossPercentScore, 2),
		CombinedPriorityScore: round(combined, 2),
		UrgencyLevel:          urgency,
		RecommendedAction:     recommendedAction(opt, combined),
		CostToClose:           round(math.Abs(opt.CurrentValue), 2),
	}
}

// recommendedAction evaluates the action ladder in strict priority order;
// first match wins. Short positions sitting on large gains outrank every
// loss-driven rule.
func recommendedAction(opt domain.OptionPosition, combined float64) string {
	switch {
	case opt.IsShort && opt.TotalGainPercent >= 60:
		return fmt.Sprintf("BUY TO CLOSE - Lock in %.1f%% profit (TAKE PROFIT NOW)", opt.TotalGainPercent)
	case opt.IsShort && opt.TotalGainPercent >= 50:
		return fmt.Sprintf("BUY TO CLOSE - Lock in %.1f%% profit (CONSIDER CLOSING)", opt.TotalGainPercent)
	case opt.TotalGain < 0 && combined >= 90:
		return "CLOSE IMMEDIATELY - Catastrophic loss, time running out"
	case opt.TotalGain < 0 && combined >= 70:
		return "HIGH PRIORITY - Consider closing to stop losses"
	case opt.TotalGain < 0 && combined >= 50:
		return "MONITOR - Review position, consider action if worsens"
	case opt.TotalGain < 0:
		return "WATCH - Track position for changes"
	default:
		return "HOLD - Position is profitable, no immediate action needed"
	}
}

// ScoreAll scores every option against the set's own maximum loss, preserving
// input order.
func (e *Engine) ScoreAll(options []domain.OptionPosition) []ScoredPosition {
	maxLoss := MaxLossDollars(options)

	scored := make([]ScoredPosition, 0, len(options))
	for _, opt := range options {
		scored = append(scored, ScoredPosition{
			OptionPosition: opt,
			Recommendation: e.Score(opt, maxLoss),
		})
	}

	e.log.Debug().
		Int("positions", len(scored)).
		Float64("max_loss_dollars", maxLoss).
		Msg("Scored option positions")

	return scored
}

// round rounds a float64 to n decimal places
func round(val float64, decimals int) float64 {
	multiplier := math.Pow(10, float64(decimals))
	return math.Round(val*multiplier) / multiplier
}
