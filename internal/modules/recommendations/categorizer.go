// Package recommendations partitions scored option positions into actionable
// views and assembles the full analysis report.
package recommendations

import (
	"sort"

	"github.com/aristath/optionsentry/internal/modules/scoring"
)

// Categories are the five named views over one scored set. A position may
// appear in several views; each slice is an independently sorted selection,
// not an ownership transfer.
type Categories struct {
	ProfitTakingOpportunities []scoring.ScoredPosition `json:"profit_taking_opportunities"`
	UrgentLosses              []scoring.ScoredPosition `json:"urgent_losses"`
	ExpiringThisWeek          []scoring.ScoredPosition `json:"expiring_this_week"`
	ExpiringNextWeek          []scoring.ScoredPosition `json:"expiring_next_week"`
	AllByPriority             []scoring.ScoredPosition `json:"all_positions_by_priority"`
}

// Categorize builds the five views. All sorts are stable so positions that
// tie keep their original file order, which makes the output deterministic
// across runs and implementations.
func Categorize(scored []scoring.ScoredPosition) Categories {
	// Every view starts non-nil so an empty category still serializes as []
	// and View can use nil to mean "no such view".
	c := Categories{
		ProfitTakingOpportunities: []scoring.ScoredPosition{},
		UrgentLosses:              []scoring.ScoredPosition{},
		ExpiringThisWeek:          []scoring.ScoredPosition{},
		ExpiringNextWeek:          []scoring.ScoredPosition{},
		AllByPriority:             []scoring.ScoredPosition{},
	}

	for _, s := range scored {
		if s.IsShort && s.TotalGainPercent >= 50 {
			c.ProfitTakingOpportunities = append(c.ProfitTakingOpportunities, s)
		}
		if s.CombinedPriorityScore >= 70 || (s.DaysToExpiration < 7 && s.TotalGain < 0) {
			c.UrgentLosses = append(c.UrgentLosses, s)
		}
		if s.DaysToExpiration <= 7 {
			c.ExpiringThisWeek = append(c.ExpiringThisWeek, s)
		}
		// The next-week list covers the full two-week horizon, not just
		// days 8-14, so it is a superset of the 7-day view.
		if s.DaysToExpiration <= 14 {
			c.ExpiringNextWeek = append(c.ExpiringNextWeek, s)
		}
	}

	c.AllByPriority = append(c.AllByPriority, scored...)

	sort.SliceStable(c.ProfitTakingOpportunities, func(i, j int) bool {
		return c.ProfitTakingOpportunities[i].TotalGainPercent > c.ProfitTakingOpportunities[j].TotalGainPercent
	})
	sort.SliceStable(c.UrgentLosses, func(i, j int) bool {
		return c.UrgentLosses[i].CombinedPriorityScore > c.UrgentLosses[j].CombinedPriorityScore
	})
	sort.SliceStable(c.ExpiringThisWeek, func(i, j int) bool {
		return c.ExpiringThisWeek[i].DaysToExpiration < c.ExpiringThisWeek[j].DaysToExpiration
	})
	sort.SliceStable(c.ExpiringNextWeek, func(i, j int) bool {
		return c.ExpiringNextWeek[i].DaysToExpiration < c.ExpiringNextWeek[j].DaysToExpiration
	})
	sort.SliceStable(c.AllByPriority, func(i, j int) bool {
		return c.AllByPriority[i].CombinedPriorityScore > c.AllByPriority[j].CombinedPriorityScore
	})

	return c
}

// View returns a named category list, or nil when the name is unknown.
// Valid views built by Categorize are never nil, even when empty.
// Names mirror the JSON keys of Categories.
func (c Categories) View(name string) []scoring.ScoredPosition {
	switch name {
	case "profit_taking_opportunities":
		return c.ProfitTakingOpportunities
	case "urgent_losses":
		return c.UrgentLosses
	case "expiring_this_week":
		return c.ExpiringThisWeek
	case "expiring_next_week":
		return c.ExpiringNextWeek
	case "all_positions_by_priority":
		return c.AllByPriority
	default:
		return nil
	}
}
