// Package summary builds the daily market summary: index and stock quotes
// plus a valuation of the portfolio's stock holdings.
package summary

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/aristath/optionsentry/internal/domain"
	"github.com/aristath/optionsentry/internal/modules/portfolio"
	"github.com/aristath/optionsentry/internal/utils"
	"github.com/rs/zerolog"
)

// TickerSpec describes one ticker to include in the summary.
type TickerSpec struct {
	Symbol string
	Name   string
	Key    string
}

// Indices are always included in the summary.
var Indices = []TickerSpec{
	{Symbol: "^GSPC", Name: "S&P 500", Key: "sp500"},
	{Symbol: "^VIX", Name: "CBOE Volatility Index", Key: "vix"},
}

// Stocks are the default watchlist. Portfolio holdings not listed here are
// fetched on top.
var Stocks = []TickerSpec{
	{Symbol: "AAPL", Name: "Apple Inc.", Key: "aapl"},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Key: "msft"},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Key: "googl"},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Key: "nvda"},
	{Symbol: "TSLA", Name: "Tesla Inc.", Key: "tsla"},
}

// Summary status values
const (
	StatusSuccess        = "success"
	StatusPartialFailure = "partial_failure"
)

// TickerResult is one quote in the summary. A failed fetch carries only the
// symbol, name and error message.
type TickerResult struct {
	Symbol             string  `json:"symbol"`
	Name               string  `json:"name"`
	CurrentPrice       float64 `json:"current_price"`
	PreviousClose      float64 `json:"previous_close"`
	DailyChangePercent float64 `json:"daily_change_percent"`
	Error              string  `json:"error,omitempty"`
}

// MarshalJSON keeps failed fetches to the symbol/name/error triple instead of
// emitting zero prices.
func (t TickerResult) MarshalJSON() ([]byte, error) {
	if t.Error != "" {
		return json.Marshal(map[string]string{
			"symbol": t.Symbol,
			"name":   t.Name,
			"error":  t.Error,
		})
	}
	type plain TickerResult
	return json.Marshal(plain(t))
}

// HoldingDetail is the valuation of a single stock holding.
type HoldingDetail struct {
	Symbol             string  `json:"symbol"`
	Shares             int     `json:"shares"`
	CurrentValue       float64 `json:"current_value"`
	DailyChangeDollars float64 `json:"daily_change_dollars"`
}

// PortfolioSummary aggregates the stock holdings at current prices.
type PortfolioSummary struct {
	TotalValue    float64                  `json:"total_portfolio_value"`
	ChangeDollars float64                  `json:"total_portfolio_change_dollars"`
	ChangePercent float64                  `json:"total_portfolio_change_percent"`
	Holdings      map[string]HoldingDetail `json:"per_stock_holdings"`
}

// Summary is the full daily market summary payload.
type Summary struct {
	Timestamp string                  `json:"timestamp"`
	Indices   map[string]TickerResult `json:"indices"`
	Stocks    map[string]TickerResult `json:"stocks"`
	Portfolio *PortfolioSummary       `json:"portfolio,omitempty"`
	Status    string                  `json:"status"`
	Mode      string                  `json:"mode"`
	Errors    []string                `json:"errors,omitempty"`
}

// Service builds market summaries from a quote provider and the portfolio.
type Service struct {
	quotes    domain.QuoteProvider
	portfolio *portfolio.Service
	log       zerolog.Logger
}

// NewService creates a new summary service
func NewService(quotes domain.QuoteProvider, p *portfolio.Service, log zerolog.Logger) *Service {
	return &Service{
		quotes:    quotes,
		portfolio: p,
		log:       log.With().Str("service", "summary").Logger(),
	}
}

// Build fetches quotes for all configured tickers plus any portfolio holdings
// outside the watchlist, and assembles the summary. Per-ticker failures are
// captured in the payload rather than aborting the whole summary.
func (s *Service) Build(now time.Time) *Summary {
	defer utils.OperationTimer("summary_build", s.log)()

	sum := &Summary{
		Timestamp: now.Format(time.RFC3339),
		Indices:   make(map[string]TickerResult),
		Stocks:    make(map[string]TickerResult),
		Mode:      "live",
	}

	var errs []string
	fetch := func(symbol, name string) TickerResult {
		quote, err := s.quotes.GetQuote(symbol, name)
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("Quote fetch failed")
			errs = append(errs, name+": "+err.Error())
			return TickerResult{Symbol: symbol, Name: name, Error: err.Error()}
		}
		return TickerResult{
			Symbol:             symbol,
			Name:               name,
			CurrentPrice:       quote.CurrentPrice,
			PreviousClose:      quote.PreviousClose,
			DailyChangePercent: quote.DailyChangePercent,
		}
	}

	for _, t := range Indices {
		sum.Indices[t.Key] = fetch(t.Symbol, t.Name)
	}
	for _, t := range Stocks {
		sum.Stocks[t.Key] = fetch(t.Symbol, t.Name)
	}

	holdings := s.loadHoldings(now)

	tracked := make(map[string]bool, len(Stocks))
	for _, t := range Stocks {
		tracked[t.Symbol] = true
	}

	extra := make([]string, 0)
	for symbol := range holdings {
		if !tracked[symbol] {
			extra = append(extra, symbol)
		}
	}
	sort.Strings(extra)
	for _, symbol := range extra {
		sum.Stocks[strings.ToLower(symbol)] = fetch(symbol, symbol)
	}

	if len(holdings) > 0 {
		sum.Portfolio = buildPortfolioSummary(holdings, sum.Stocks)
	}

	sum.Status = StatusSuccess
	if len(errs) > 0 {
		sum.Status = StatusPartialFailure
		sum.Errors = errs
	}

	return sum
}

func (s *Service) loadHoldings(now time.Time) map[string]int {
	if s.portfolio == nil {
		return nil
	}
	p, err := s.portfolio.Load(now)
	if err != nil {
		s.log.Warn().Err(err).Msg("Portfolio unavailable, summary omits holdings")
		return nil
	}
	return p.Stocks
}

func buildPortfolioSummary(holdings map[string]int, stocks map[string]TickerResult) *PortfolioSummary {
	var totalCurrent, totalPrevious float64
	detail := make(map[string]HoldingDetail)

	for symbol, shares := range holdings {
		key := strings.ToLower(symbol)
		quote, ok := stocks[key]
		if !ok || quote.Error != "" {
			continue
		}

		currentValue := float64(shares) * quote.CurrentPrice
		previousValue := float64(shares) * quote.PreviousClose
		totalCurrent += currentValue
		totalPrevious += previousValue

		detail[key] = HoldingDetail{
			Symbol:             symbol,
			Shares:             shares,
			CurrentValue:       round(currentValue, 2),
			DailyChangeDollars: round(currentValue-previousValue, 2),
		}
	}

	changeDollars := totalCurrent - totalPrevious
	changePercent := 0.0
	if totalPrevious > 0 {
		changePercent = changeDollars / totalPrevious * 100
	}

	return &PortfolioSummary{
		TotalValue:    round(totalCurrent, 2),
		ChangeDollars: round(changeDollars, 2),
		ChangePercent: round(changePercent, 2),
		Holdings:      detail,
	}
}

// round rounds a value to the specified number of decimal places
func round(val float64, decimals int) float64 {
	multiplier := math.Pow(10, float64(decimals))
	return math.Round(val*multiplier) / multiplier
}
