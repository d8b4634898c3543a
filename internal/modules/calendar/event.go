// Package calendar syncs option expiration dates to Google Calendar, with
// P&L details and action recommendations in the event body.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/optionsentry/internal/modules/scoring"
)

const (
	eventHour            = 9 // 9 AM local market time
	eventDurationMinutes = 30

	colorGreen = "10"
	colorRed   = "11"
)

// eventTimeZone is the market timezone used for all expiration events.
const eventTimeZone = "America/New_York"

// EventTime is a Google Calendar API timed boundary.
type EventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// Reminder is a single popup reminder override.
type Reminder struct {
	Method  string `json:"method"`
	Minutes int    `json:"minutes"`
}

// Reminders disables calendar defaults in favour of explicit overrides.
type Reminders struct {
	UseDefault bool       `json:"useDefault"`
	Overrides  []Reminder `json:"overrides"`
}

// Event is the Google Calendar API event body.
type Event struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Start       EventTime `json:"start"`
	End         EventTime `json:"end"`
	Reminders   Reminders `json:"reminders"`
	ColorID     string    `json:"colorId"`
}

// BuildEvent creates the calendar event for one scored option position.
// The event sits at 9:00 AM market time on expiration day, colored green for
// gains and red for losses, with popup reminders 30, 7 and 1 days out.
func BuildEvent(pos scoring.ScoredPosition, now time.Time) *Event {
	loc, err := time.LoadLocation(eventTimeZone)
	if err != nil {
		loc = time.UTC
	}

	exp := pos.ExpirationDate
	start := time.Date(exp.Year(), exp.Month(), exp.Day(), eventHour, 0, 0, 0, loc)
	end := start.Add(eventDurationMinutes * time.Minute)

	colorID := colorGreen
	if pos.TotalGain < 0 {
		colorID = colorRed
	}

	return &Event{
		Summary:     EventTitle(pos),
		Description: eventDescription(pos, now),
		Start:       EventTime{DateTime: start.Format("2006-01-02T15:04:05"), TimeZone: eventTimeZone},
		End:         EventTime{DateTime: end.Format("2006-01-02T15:04:05"), TimeZone: eventTimeZone},
		Reminders: Reminders{
			UseDefault: false,
			Overrides: []Reminder{
				{Method: "popup", Minutes: 30 * 24 * 60},
				{Method: "popup", Minutes: 7 * 24 * 60},
				{Method: "popup", Minutes: 1 * 24 * 60},
			},
		},
		ColorID: colorID,
	}
}

// EventTitle is the event summary, also used to match existing events.
func EventTitle(pos scoring.ScoredPosition) string {
	prefix := "Long"
	if pos.IsShort {
		prefix = "Short"
	}
	strike := strconv.FormatFloat(pos.StrikePrice, 'f', -1, 64)
	return fmt.Sprintf("\U0001F4CA %s $%s %s expires (%s)", pos.UnderlyingSymbol, strike, pos.OptionType, prefix)
}

func eventDescription(pos scoring.ScoredPosition, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Symbol: %s\n", pos.Symbol)
	fmt.Fprintf(&b, "Underlying: %s\n", pos.UnderlyingSymbol)
	fmt.Fprintf(&b, "Option Type: %s\n", pos.OptionType)
	fmt.Fprintf(&b, "Strike Price: $%.2f\n", pos.StrikePrice)
	fmt.Fprintf(&b, "Position: %s\n", strings.ToUpper(string(pos.PositionType)))
	fmt.Fprintf(&b, "Quantity: %d\n", pos.Quantity)
	b.WriteString("\n")

	b.WriteString("=== P&L ===\n")
	fmt.Fprintf(&b, "Current Value: $%s\n", formatDollars(pos.CurrentValue))
	fmt.Fprintf(&b, "Total P&L: $%s (%.2f%%)\n", formatDollars(pos.TotalGain), pos.TotalGainPercent)
	fmt.Fprintf(&b, "Cost to Close: $%s\n", formatDollars(pos.CostToClose))
	b.WriteString("\n")

	fmt.Fprintf(&b, "Days to Expiration: %d\n", pos.DaysToExpiration)
	b.WriteString("\n")

	b.WriteString("=== ACTION RECOMMENDED ===\n")
	fmt.Fprintf(&b, "Priority: %s\n", pos.UrgencyLevel)
	fmt.Fprintf(&b, "Score: %.1f\n", pos.CombinedPriorityScore)
	fmt.Fprintf(&b, "Action: %s\n", pos.RecommendedAction)
	b.WriteString("\n")

	fmt.Fprintf(&b, "Last updated: %s", now.Format("2006-01-02 15:04:05"))

	return b.String()
}

// formatDollars renders a value with thousands separators, e.g. -1234.5
// becomes "-1,234.50".
func formatDollars(val float64) string {
	s := strconv.FormatFloat(val, 'f', 2, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	dot := strings.Index(s, ".")
	intPart, fracPart := s[:dot], s[dot:]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	return sign + strings.Join(groups, ",") + fracPart
}
