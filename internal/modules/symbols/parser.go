// Package symbols decodes brokerage symbol strings into stock tickers or
// structured option descriptors.
package symbols

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/optionsentry/internal/domain"
)

// Classification is the routing decision for one raw symbol string.
type Classification int

const (
	// ClassStock - plain equity ticker row
	ClassStock Classification = iota
	// ClassOption - full option grammar match with a valid calendar date
	ClassOption
	// ClassExcluded - reserved token or option-like string that failed the
	// grammar; excluded from both stock and option output
	ClassExcluded
)

// Option symbol grammar: "NVDA Feb 27 '26 $195 Call"
// Month abbreviation and kind are case-insensitive; year is two digits.
var optionPattern = regexp.MustCompile(`^([A-Za-z]+)\s+([A-Za-z]{3})\s+(\d{1,2})\s+'(\d{2})\s+\$(\d+(?:\.\d+)?)\s+(?i:(Call|Put))$`)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Reserved symbols that never represent holdings
var reservedSymbols = map[string]bool{
	"CASH":  true,
	"TOTAL": true,
}

// ParseOption decodes a trimmed symbol string against the option grammar.
// Returns nil when the string is not a well-formed option symbol: pattern
// mismatch, unknown month abbreviation, an impossible calendar date (Feb 30),
// or a non-positive strike. Years are interpreted as 2000+YY; contracts
// outside 2000-2099 are not representable in this grammar.
func ParseOption(symbol string) *domain.OptionDescriptor {
	m := optionPattern.FindStringSubmatch(symbol)
	if m == nil {
		return nil
	}

	month, ok := months[strings.ToLower(m[2])]
	if !ok {
		return nil
	}

	day, _ := strconv.Atoi(m[3])
	yy, _ := strconv.Atoi(m[4])
	year := 2000 + yy

	// time.Date normalizes overflow (Feb 30 becomes Mar 2), so an exact
	// round-trip check is needed to reject impossible dates.
	expiration := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if expiration.Year() != year || expiration.Month() != month || expiration.Day() != day {
		return nil
	}

	strike, err := strconv.ParseFloat(m[5], 64)
	if err != nil || strike <= 0 {
		return nil
	}

	kind := domain.OptionKindCall
	if strings.EqualFold(m[6], "put") {
		kind = domain.OptionKindPut
	}

	return &domain.OptionDescriptor{
		Underlying: strings.ToUpper(m[1]),
		Expiration: expiration,
		Strike:     strike,
		Kind:       kind,
	}
}

// Classify routes a trimmed symbol string into exactly one bucket.
//
// A full grammar match is an option. Anything else containing the literal
// substrings "Call" or "Put" (case-sensitive, matching the brokerage export's
// own capitalization) is excluded entirely rather than misread as a ticker -
// these are malformed or unsupported contract rows, not equities. Reserved
// CASH/TOTAL rows are likewise excluded. Everything else is a stock.
//
// There is deliberately no error return: brokerage exports mix heterogeneous
// row types and the caller just routes on the answer.
func Classify(symbol string) (Classification, *domain.OptionDescriptor) {
	if desc := ParseOption(symbol); desc != nil {
		return ClassOption, desc
	}

	if strings.Contains(symbol, "Call") || strings.Contains(symbol, "Put") {
		return ClassExcluded, nil
	}

	if reservedSymbols[strings.ToUpper(symbol)] {
		return ClassExcluded, nil
	}

	return ClassStock, nil
}
