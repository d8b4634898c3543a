package domain

// Quote carries current and previous-close prices for one ticker.
// DailyChangePercent is derived at fetch time and rounded to 2 decimals.
type Quote struct {
	Symbol             string  `json:"symbol"`
	Name               string  `json:"name"`
	CurrentPrice       float64 `json:"current_price"`
	PreviousClose      float64 `json:"previous_close"`
	DailyChangePercent float64 `json:"daily_change_percent"`
}

// QuoteProvider fetches price data for a single ticker. Implementations own
// symbol remapping, rate limiting and transport concerns; callers only see a
// quote or an error per symbol.
type QuoteProvider interface {
	GetQuote(symbol, name string) (*Quote, error)
}
