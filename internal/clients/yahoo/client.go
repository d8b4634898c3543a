// Package yahoo provides stock and index quotes from the Yahoo Finance
// chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/aristath/optionsentry/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// defaultRequestsPerSecond caps the request rate against Yahoo. The summary
// fetches a dozen tickers back to back; pacing them keeps 429s away.
const defaultRequestsPerSecond = 5

// symbolMap translates share-class symbols to Yahoo's dash notation.
var symbolMap = map[string]string{
	"BRK.B": "BRK-B",
	"BRK.A": "BRK-A",
}

// Client for the Yahoo Finance chart API
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewClient creates a new Yahoo Finance client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		baseURL: "https://query1.finance.yahoo.com/v8/finance/chart",
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultRequestsPerSecond),
		log:     log.With().Str("client", "yahoo").Logger(),
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"previousClose"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetQuote fetches the current price and previous close for a symbol and
// computes the daily percentage change. Prices are rounded to cents.
func (c *Client) GetQuote(symbol, name string) (*domain.Quote, error) {
	yahooSymbol := symbol
	if mapped, ok := symbolMap[symbol]; ok {
		yahooSymbol = mapped
	}

	if err := c.limiter.Wait(context.Background()); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, yahooSymbol)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// Yahoo rejects requests without a browser-ish user agent
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)")

	c.log.Debug().Str("symbol", symbol).Str("url", url).Msg("Fetching quote")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d for %s", resp.StatusCode, symbol)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("API error for %s: %s", symbol, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("could not retrieve price data for %s", symbol)
	}

	meta := payload.Chart.Result[0].Meta
	currentPrice := meta.RegularMarketPrice
	previousClose := meta.PreviousClose
	if previousClose == 0 {
		previousClose = meta.ChartPreviousClose
	}

	if currentPrice == 0 || previousClose == 0 {
		return nil, fmt.Errorf("could not retrieve price data for %s", symbol)
	}

	change := (currentPrice - previousClose) / previousClose * 100

	return &domain.Quote{
		Symbol:             symbol,
		Name:               name,
		CurrentPrice:       round(currentPrice, 2),
		PreviousClose:      round(previousClose, 2),
		DailyChangePercent: round(change, 2),
	}, nil
}

// round rounds a value to the specified number of decimal places
func round(val float64, decimals int) float64 {
	multiplier := math.Pow(10, float64(decimals))
	return math.Round(val*multiplier) / multiplier
}
