package portfolio

import (
	"math"
	"strconv"
	"strings"
)

// numericReplacer strips the decorations brokerage exports put on numeric
// cells: thousands separators, currency symbols and percent signs.
var numericReplacer = strings.NewReplacer(",", "", "$", "", "%", "")

// ParseNumeric converts a numeric cell to a float, returning def when the
// cell is blank or unparsable. Total function: it never returns an error and
// never produces NaN or infinities, which keeps downstream scoring arithmetic
// total as well. Exports frequently leave cells blank, so the default path is
// normal operation rather than an exceptional one.
func ParseNumeric(text string, def float64) float64 {
	cleaned := strings.TrimSpace(numericReplacer.Replace(text))
	if cleaned == "" {
		return def
	}

	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return def
	}
	// ParseFloat accepts "NaN" and "Inf" spellings; treat them as unparsable
	// so non-finite values never reach the scoring arithmetic.
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return def
	}

	return val
}

// ParseQuantity converts a quantity cell to an int through the same cleaning
// path, truncating any fractional part ("1,234.0" parses to 1234).
func ParseQuantity(text string, def int) int {
	cleaned := strings.TrimSpace(numericReplacer.Replace(text))
	if cleaned == "" {
		return def
	}

	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return def
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return def
	}

	return int(val)
}
