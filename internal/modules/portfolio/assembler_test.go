package portfolio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aristath/optionsentry/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2025, time.February, 7, 0, 0, 0, 0, time.UTC)

func row(symbol, quantity string) Row {
	return Row{ColSymbol: symbol, ColQuantity: quantity}
}

func TestAssembleStocks(t *testing.T) {
	a := NewAssembler(zerolog.Nop())

	p := a.Assemble([]Row{
		row("AAPL", "100"),
		row("msft", "50"),
	}, testToday)

	assert.Equal(t, map[string]int{"AAPL": 100, "MSFT": 50}, p.Stocks)
	assert.Empty(t, p.Options)
}

func TestAssembleStripsNumericDecorations(t *testing.T) {
	a := NewAssembler(zerolog.Nop())

	p := a.Assemble([]Row{
		{ColSymbol: "AAPL", ColQuantity: "1,234", ColPricePaid: "$12.50"},
	}, testToday)

	assert.Equal(t, 1234, p.Stocks["AAPL"])
}

func TestAssembleSkipsReservedAndEmptyRows(t *testing.T) {
	a := NewAssembler(zerolog.Nop())

	p := a.Assemble([]Row{
		row("", "10"),
		row("  ", "10"),
		row("CASH", "9999"),
		row("TOTAL", "9999"),
		row("AAPL", "100"),
	}, testToday)

	assert.Equal(t, map[string]int{"AAPL": 100}, p.Stocks)
}

func TestAssembleDropsNonPositiveStockQuantity(t *testing.T) {
	a := NewAssembler(zerolog.Nop())

	p := a.Assemble([]Row{
		row("AAPL", "0"),
		row("MSFT", "-5"),
		row("GOOGL", "blank"),
	}, testToday)

	assert.Empty(t, p.Stocks)
}

func TestAssembleLastRowWinsForDuplicateStocks(t *testing.T) {
	a := NewAssembler(zerolog.Nop())

	p := a.Assemble([]Row{
		row("AAPL", "100"),
		row("AAPL", "25"),
	}, testToday)

	assert.Equal(t, 25, p.Stocks["AAPL"], "duplicate stock rows overwrite, not sum")
}

func TestAssembleOptionPosition(t *testing.T) {
	a := NewAssembler(zerolog.Nop())

	p := a.Assemble([]Row{
		{
			ColSymbol:       "AAPL Feb 7 '25 $190 Call",
			ColQuantity:     "-1",
			ColPricePaid:    "$8.50",
			ColLastPrice:    "$4.25",
			ColDaysGain:     "$15.00",
			ColTotalGain:    "$425.00",
			ColTotalGainPct: "33.3%",
			ColValue:        "-$425.00",
		},
	}, testToday)

	require.Len(t, p.Options, 1)
	opt := p.Options[0]
	assert.Equal(t, "AAPL Feb 7 '25 $190 Call", opt.Symbol)
	assert.Equal(t, "AAPL", opt.UnderlyingSymbol)
	assert.Equal(t, 190.0, opt.StrikePrice)
	assert.Equal(t, domain.OptionKindCall, opt.OptionType)
	assert.Equal(t, -1, opt.Quantity)
	assert.True(t, opt.IsShort)
	assert.Equal(t, domain.PositionTypeShort, opt.PositionType)
	assert.Equal(t, 0, opt.DaysToExpiration, "expires today")
	assert.Equal(t, 425.0, opt.TotalGain)
	assert.Equal(t, 33.3, opt.TotalGainPercent)
	assert.Equal(t, -425.0, opt.CurrentValue)
}

func TestAssembleKeepsDuplicateOptionLots(t *testing.T) {
	a := NewAssembler(zerolog.Nop())

	sym := "MSFT Feb 14 '25 $400 Put"
	p := a.Assemble([]Row{
		{ColSymbol: sym, ColQuantity: "1"},
		{ColSymbol: sym, ColQuantity: "2"},
	}, testToday)

	require.Len(t, p.Options, 2, "duplicate option symbols are separate lots")
	assert.Equal(t, 1, p.Options[0].Quantity)
	assert.Equal(t, 2, p.Options[1].Quantity)
}

func TestAssembleExcludesMalformedOptionEntirely(t *testing.T) {
	a := NewAssembler(zerolog.Nop())

	// Invalid calendar date: not an option, and the Call substring keeps it
	// out of the stock map too.
	p := a.Assemble([]Row{
		{ColSymbol: "AAPL Feb 30 '25 $190 Call", ColQuantity: "1"},
	}, testToday)

	assert.Empty(t, p.Stocks)
	assert.Empty(t, p.Options)
}

func TestReadRowsHandlesBOMAndShortRecords(t *testing.T) {
	csvData := "\ufeffSymbol,Quantity,Price Paid $\nAAPL,100,185.50\nMSFT,50\n"

	rows, err := ReadRows(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "AAPL", rows[0][ColSymbol])
	assert.Equal(t, "185.50", rows[0][ColPricePaid])
	assert.Equal(t, "", rows[1][ColPricePaid], "short records pad with empty cells")
}

func TestServiceLoadMissingFile(t *testing.T) {
	svc := NewService(filepath.Join(t.TempDir(), "missing.csv"), zerolog.Nop())

	_, err := svc.Load(testToday)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestServiceLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.csv")
	csvData := "Symbol,Quantity,Price Paid $,Last Price $,Day's Gain $,Total Gain $,Total Gain %,Value $\n" +
		"AAPL,100,150.00,185.92,152.00,3592.00,23.9,18592.00\n" +
		"\"NVDA Feb 27 '26 $195 Call\",-1,8.50,4.25,15.00,425.00,50.0,-425.00\n" +
		"TOTAL,,,,,,,73498.40\n"
	require.NoError(t, os.WriteFile(path, []byte(csvData), 0644))

	svc := NewService(path, zerolog.Nop())
	p, err := svc.Load(testToday)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"AAPL": 100}, p.Stocks)
	require.Len(t, p.Options, 1)
	assert.Equal(t, "NVDA", p.Options[0].UnderlyingSymbol)
	assert.True(t, p.Options[0].IsShort)
}
