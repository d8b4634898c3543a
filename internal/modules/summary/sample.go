package summary

import "time"

// Sample returns a canned summary for test mode, so the output shape can be
// exercised without hitting Yahoo Finance.
func Sample(now time.Time) *Summary {
	return &Summary{
		Timestamp: now.Format(time.RFC3339),
		Indices: map[string]TickerResult{
			"sp500": {Symbol: "^GSPC", Name: "S&P 500", CurrentPrice: 5021.84, PreviousClose: 4997.91, DailyChangePercent: 0.48},
			"vix":   {Symbol: "^VIX", Name: "CBOE Volatility Index", CurrentPrice: 14.32, PreviousClose: 14.85, DailyChangePercent: -3.57},
		},
		Stocks: map[string]TickerResult{
			"aapl":  {Symbol: "AAPL", Name: "Apple Inc.", CurrentPrice: 185.92, PreviousClose: 184.40, DailyChangePercent: 0.82},
			"msft":  {Symbol: "MSFT", Name: "Microsoft Corporation", CurrentPrice: 415.50, PreviousClose: 411.22, DailyChangePercent: 1.04},
			"googl": {Symbol: "GOOGL", Name: "Alphabet Inc.", CurrentPrice: 141.80, PreviousClose: 140.95, DailyChangePercent: 0.60},
			"nvda":  {Symbol: "NVDA", Name: "NVIDIA Corporation", CurrentPrice: 682.35, PreviousClose: 674.72, DailyChangePercent: 1.13},
			"tsla":  {Symbol: "TSLA", Name: "Tesla Inc.", CurrentPrice: 207.83, PreviousClose: 211.88, DailyChangePercent: -1.91},
		},
		Portfolio: &PortfolioSummary{
			TotalValue:    73498.40,
			ChangeDollars: 679.55,
			ChangePercent: 0.93,
			Holdings: map[string]HoldingDetail{
				"aapl":  {Symbol: "AAPL", Shares: 100, CurrentValue: 18592.00, DailyChangeDollars: 152.00},
				"msft":  {Symbol: "MSFT", Shares: 50, CurrentValue: 20775.00, DailyChangeDollars: 214.00},
				"googl": {Symbol: "GOOGL", Shares: 25, CurrentValue: 3545.00, DailyChangeDollars: 21.25},
				"nvda":  {Symbol: "NVDA", Shares: 50, CurrentValue: 34117.50, DailyChangeDollars: 381.50},
				"tsla":  {Symbol: "TSLA", Shares: 30, CurrentValue: 6234.90, DailyChangeDollars: -121.50},
			},
		},
		Status: StatusSuccess,
		Mode:   "test",
	}
}
