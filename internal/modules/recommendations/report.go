package recommendations

import (
	"math"
	"time"

	"github.com/aristath/optionsentry/internal/domain"
	"github.com/aristath/optionsentry/internal/modules/portfolio"
	"github.com/aristath/optionsentry/internal/modules/scoring"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Totals aggregates the option book: overall value and day movement, the
// long/short split, and summary statistics over the priority scores.
type Totals struct {
	TotalValue         float64 `json:"total_value"`
	TotalDaysGain      float64 `json:"total_days_gain"`
	DailyChangePercent float64 `json:"daily_change_percent"`
	LongCount          int     `json:"long_count"`
	ShortCount         int     `json:"short_count"`
	LongValue          float64 `json:"long_value"`
	ShortValue         float64 `json:"short_value"`
	AvgPriorityScore   float64 `json:"avg_priority_score"`
	MaxPriorityScore   float64 `json:"max_priority_score"`
}

// Report is the full analysis output for one portfolio snapshot.
type Report struct {
	GeneratedAt   time.Time      `json:"generated_at"`
	SourceDate    time.Time      `json:"source_date"`
	StockHoldings map[string]int `json:"stock_holdings"`
	OptionCount   int            `json:"option_count"`
	Totals        Totals         `json:"totals"`
	Categories    Categories     `json:"categories"`
}

// BuildTotals computes portfolio-wide aggregates from the scored set.
// The previous value is reconstructed as current minus the day's gain, which
// is what the export actually encodes.
func BuildTotals(scored []scoring.ScoredPosition) Totals {
	t := Totals{}

	scores := make([]float64, 0, len(scored))
	for _, s := range scored {
		t.TotalValue += s.CurrentValue
		t.TotalDaysGain += s.DaysGain

		if s.IsShort {
			t.ShortCount++
			t.ShortValue += s.CurrentValue
		} else {
			t.LongCount++
			t.LongValue += s.CurrentValue
		}

		scores = append(scores, s.CombinedPriorityScore)
	}

	previousValue := t.TotalValue - t.TotalDaysGain
	if previousValue != 0 {
		t.DailyChangePercent = round(t.TotalDaysGain/math.Abs(previousValue)*100, 2)
	}

	if len(scores) > 0 {
		t.AvgPriorityScore = round(stat.Mean(scores, nil), 2)
		t.MaxPriorityScore = floats.Max(scores)
	}

	t.TotalValue = round(t.TotalValue, 2)
	t.TotalDaysGain = round(t.TotalDaysGain, 2)
	t.LongValue = round(t.LongValue, 2)
	t.ShortValue = round(t.ShortValue, 2)

	return t
}

// Analyzer runs the full pipeline: load, score, categorize, aggregate.
type Analyzer struct {
	portfolio *portfolio.Service
	engine    *scoring.Engine
	log       zerolog.Logger
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(portfolioSvc *portfolio.Service, engine *scoring.Engine, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		portfolio: portfolioSvc,
		engine:    engine,
		log:       log.With().Str("service", "analyzer").Logger(),
	}
}

// Analyze produces the full report for the portfolio as of the given date.
// Pure function of the CSV snapshot and the date; repeated runs over the same
// inputs yield identical reports.
func (a *Analyzer) Analyze(today time.Time) (*Report, error) {
	p, err := a.portfolio.Load(today)
	if err != nil {
		return nil, err
	}

	return a.AnalyzePortfolio(p, today), nil
}

// AnalyzePortfolio scores and categorizes an already-assembled portfolio.
func (a *Analyzer) AnalyzePortfolio(p *domain.Portfolio, today time.Time) *Report {
	scored := a.engine.ScoreAll(p.Options)
	categories := Categorize(scored)

	report := &Report{
		GeneratedAt:   time.Now().UTC(),
		SourceDate:    today,
		StockHoldings: p.Stocks,
		OptionCount:   len(p.Options),
		Totals:        BuildTotals(scored),
		Categories:    categories,
	}

	a.log.Info().
		Int("options", report.OptionCount).
		Int("stocks", len(p.Stocks)).
		Int("urgent", len(categories.UrgentLosses)).
		Int("profit_taking", len(categories.ProfitTakingOpportunities)).
		Msg("Analysis complete")

	return report
}

// round rounds a float64 to n decimal places
func round(val float64, decimals int) float64 {
	multiplier := math.Pow(10, float64(decimals))
	return math.Round(val*multiplier) / multiplier
}
