// Package domain provides core domain models and types.
package domain

import "time"

// OptionKind represents the contract kind of an option
type OptionKind string

const (
	OptionKindCall OptionKind = "Call"
	OptionKindPut  OptionKind = "Put"
)

// PositionType labels the direction of an option position
type PositionType string

const (
	PositionTypeLong  PositionType = "long"
	PositionTypeShort PositionType = "short"
)

// OptionDescriptor is a symbol string decoded into structured option fields.
// Invariants: Expiration is a valid calendar date, Strike > 0.
type OptionDescriptor struct {
	Underlying string     `json:"underlying"`
	Expiration time.Time  `json:"expiration"`
	Strike     float64    `json:"strike"`
	Kind       OptionKind `json:"kind"`
}

// StockPosition is a plain equity holding. Quantity is always > 0; rows with
// non-positive quantity are dropped during assembly, not stored.
type StockPosition struct {
	Symbol   string `json:"symbol"`
	Quantity int    `json:"quantity"`
}

// OptionPosition is one option lot from the brokerage export. The original
// descriptive symbol string is kept as the stable identity key. Quantity is
// signed: negative encodes a short position. IsShort and PositionType are
// always derived from the sign of Quantity, never stored independently.
type OptionPosition struct {
	Symbol           string       `json:"symbol"`
	UnderlyingSymbol string       `json:"underlying_symbol"`
	ExpirationDate   time.Time    `json:"expiration_date"`
	StrikePrice      float64      `json:"strike_price"`
	OptionType       OptionKind   `json:"option_type"`
	Quantity         int          `json:"quantity"`
	IsShort          bool         `json:"is_short"`
	PositionType     PositionType `json:"position_type"`
	DaysToExpiration int          `json:"days_to_expiration"`
	PricePaid        float64      `json:"price_paid"`
	CurrentPrice     float64      `json:"current_price"`
	DaysGain         float64      `json:"days_gain"`
	TotalGain        float64      `json:"total_gain"`
	TotalGainPercent float64      `json:"total_gain_percent"`
	CurrentValue     float64      `json:"current_value"`
}

// NewOptionPosition builds an OptionPosition from a decoded descriptor and the
// row's numeric fields, deriving direction and days to expiration from a
// supplied reference date. DaysToExpiration may be negative for contracts that
// already lapsed; callers must handle that.
func NewOptionPosition(symbol string, desc OptionDescriptor, quantity int, pricePaid, currentPrice, daysGain, totalGain, totalGainPercent, currentValue float64, today time.Time) OptionPosition {
	isShort := quantity < 0
	posType := PositionTypeLong
	if isShort {
		posType = PositionTypeShort
	}

	return OptionPosition{
		Symbol:           symbol,
		UnderlyingSymbol: desc.Underlying,
		ExpirationDate:   desc.Expiration,
		StrikePrice:      desc.Strike,
		OptionType:       desc.Kind,
		Quantity:         quantity,
		IsShort:          isShort,
		PositionType:     posType,
		DaysToExpiration: DaysBetween(today, desc.Expiration),
		PricePaid:        pricePaid,
		CurrentPrice:     currentPrice,
		DaysGain:         daysGain,
		TotalGain:        totalGain,
		TotalGainPercent: totalGainPercent,
		CurrentValue:     currentValue,
	}
}

// DaysBetween returns whole calendar days from one date to another, ignoring
// the time-of-day component. Negative when to is before from.
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// Portfolio is the assembled view of one brokerage export: stock holdings
// keyed by upper-cased ticker and option lots in file order.
type Portfolio struct {
	Stocks  map[string]int   `json:"stocks"`
	Options []OptionPosition `json:"options"`
}
