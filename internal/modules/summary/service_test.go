package summary

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aristath/optionsentry/internal/domain"
	"github.com/aristath/optionsentry/internal/modules/portfolio"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockQuoteProvider struct {
	mock.Mock
}

func (m *mockQuoteProvider) GetQuote(symbol, name string) (*domain.Quote, error) {
	args := m.Called(symbol, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

func quoteFor(symbol, name string, current, previous, change float64) *domain.Quote {
	return &domain.Quote{
		Symbol:             symbol,
		Name:               name,
		CurrentPrice:       current,
		PreviousClose:      previous,
		DailyChangePercent: change,
	}
}

// expectWatchlist wires successful quotes for every index and watchlist stock.
func expectWatchlist(m *mockQuoteProvider) {
	for _, t := range Indices {
		m.On("GetQuote", t.Symbol, t.Name).Return(quoteFor(t.Symbol, t.Name, 100.0, 99.0, 1.01), nil)
	}
	for _, t := range Stocks {
		m.On("GetQuote", t.Symbol, t.Name).Return(quoteFor(t.Symbol, t.Name, 185.92, 184.40, 0.82), nil)
	}
}

func portfolioService(t *testing.T, csvData string) *portfolio.Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolio.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvData), 0644))
	return portfolio.NewService(path, zerolog.Nop())
}

const holdingsCSV = "Symbol,Quantity,Price Paid $,Last Price $,Day's Gain $,Total Gain $,Total Gain %,Value $\n" +
	"AAPL,100,150.00,185.92,152.00,3592.00,23.9,18592.00\n"

func TestBuildAllSuccess(t *testing.T) {
	quotes := new(mockQuoteProvider)
	expectWatchlist(quotes)

	service := NewService(quotes, portfolioService(t, holdingsCSV), zerolog.Nop())
	now := time.Date(2025, time.February, 13, 12, 0, 0, 0, time.UTC)

	s := service.Build(now)

	assert.Equal(t, StatusSuccess, s.Status)
	assert.Equal(t, "live", s.Mode)
	assert.Empty(t, s.Errors)
	assert.Len(t, s.Indices, 2)
	assert.Len(t, s.Stocks, 5)
	assert.Equal(t, "^GSPC", s.Indices["sp500"].Symbol)
	assert.Equal(t, "S&P 500", s.Indices["sp500"].Name)

	require.NotNil(t, s.Portfolio)
	assert.Equal(t, 18592.0, s.Portfolio.TotalValue)
	assert.Equal(t, 152.0, s.Portfolio.ChangeDollars)
	// previous value = 100 * 184.40 = 18440
	assert.InDelta(t, 152.0/18440.0*100, s.Portfolio.ChangePercent, 0.01)

	holding := s.Portfolio.Holdings["aapl"]
	assert.Equal(t, "AAPL", holding.Symbol)
	assert.Equal(t, 100, holding.Shares)
	assert.Equal(t, 18592.0, holding.CurrentValue)
	assert.Equal(t, 152.0, holding.DailyChangeDollars)

	quotes.AssertExpectations(t)
}

func TestBuildPartialFailure(t *testing.T) {
	quotes := new(mockQuoteProvider)
	quotes.On("GetQuote", "^GSPC", "S&P 500").Return(nil, errors.New("rate limited"))
	quotes.On("GetQuote", "^VIX", "CBOE Volatility Index").Return(quoteFor("^VIX", "CBOE Volatility Index", 14.32, 14.85, -3.57), nil)
	for _, spec := range Stocks {
		quotes.On("GetQuote", spec.Symbol, spec.Name).Return(quoteFor(spec.Symbol, spec.Name, 100.0, 99.0, 1.01), nil)
	}

	service := NewService(quotes, nil, zerolog.Nop())
	s := service.Build(time.Now())

	assert.Equal(t, StatusPartialFailure, s.Status)
	assert.Equal(t, []string{"S&P 500: rate limited"}, s.Errors)
	assert.Equal(t, "rate limited", s.Indices["sp500"].Error)
	assert.Empty(t, s.Indices["vix"].Error)
}

func TestBuildFetchesUntrackedHoldings(t *testing.T) {
	csvData := holdingsCSV + "GME,10,20.00,25.00,5.00,50.00,25.0,250.00\n"

	quotes := new(mockQuoteProvider)
	expectWatchlist(quotes)
	quotes.On("GetQuote", "GME", "GME").Return(quoteFor("GME", "GME", 25.0, 24.0, 4.17), nil)

	service := NewService(quotes, portfolioService(t, csvData), zerolog.Nop())
	s := service.Build(time.Now())

	require.Contains(t, s.Stocks, "gme")
	assert.Equal(t, 25.0, s.Stocks["gme"].CurrentPrice)

	require.NotNil(t, s.Portfolio)
	assert.Equal(t, 250.0, s.Portfolio.Holdings["gme"].CurrentValue)
	assert.Equal(t, 10.0, s.Portfolio.Holdings["gme"].DailyChangeDollars)
	quotes.AssertExpectations(t)
}

func TestBuildFailedHoldingExcludedFromTotals(t *testing.T) {
	csvData := holdingsCSV + "GME,10,20.00,25.00,5.00,50.00,25.0,250.00\n"

	quotes := new(mockQuoteProvider)
	expectWatchlist(quotes)
	quotes.On("GetQuote", "GME", "GME").Return(nil, errors.New("not found"))

	service := NewService(quotes, portfolioService(t, csvData), zerolog.Nop())
	s := service.Build(time.Now())

	assert.Equal(t, StatusPartialFailure, s.Status)
	require.NotNil(t, s.Portfolio)
	assert.NotContains(t, s.Portfolio.Holdings, "gme")
	assert.Equal(t, 18592.0, s.Portfolio.TotalValue)
}

func TestBuildWithoutPortfolio(t *testing.T) {
	quotes := new(mockQuoteProvider)
	expectWatchlist(quotes)

	service := NewService(quotes, nil, zerolog.Nop())
	s := service.Build(time.Now())

	assert.Nil(t, s.Portfolio)
	assert.Equal(t, StatusSuccess, s.Status)
}

func TestSample(t *testing.T) {
	now := time.Date(2024, time.February, 12, 9, 30, 0, 0, time.UTC)
	s := Sample(now)

	assert.Equal(t, StatusSuccess, s.Status)
	assert.Equal(t, "test", s.Mode)
	assert.Len(t, s.Indices, 2)
	assert.Len(t, s.Stocks, 5)
	require.NotNil(t, s.Portfolio)
	assert.Equal(t, 73498.40, s.Portfolio.TotalValue)
	assert.Equal(t, now.Format(time.RFC3339), s.Timestamp)
}

func TestTickerResultErrorMarshal(t *testing.T) {
	failed := TickerResult{Symbol: "^GSPC", Name: "S&P 500", Error: "boom"}

	raw, err := json.Marshal(failed)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Len(t, decoded, 3, "failed fetches carry only symbol, name and error")
	assert.Equal(t, "boom", decoded["error"])
}
