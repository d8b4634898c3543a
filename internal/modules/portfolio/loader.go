// Package portfolio loads brokerage CSV exports and assembles typed stock and
// option positions from them.
package portfolio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Column names as they appear in the brokerage export header row.
const (
	ColSymbol       = "Symbol"
	ColQuantity     = "Quantity"
	ColPricePaid    = "Price Paid $"
	ColLastPrice    = "Last Price $"
	ColDaysGain     = "Day's Gain $"
	ColTotalGain    = "Total Gain $"
	ColTotalGainPct = "Total Gain %"
	ColValue        = "Value $"
)

// ErrNoData reports that the portfolio source is unavailable. This is the
// only hard failure the loader surfaces; malformed rows inside an existing
// file are always recovered locally.
var ErrNoData = errors.New("no portfolio data")

// Row is one raw CSV record keyed by column name, untyped as delivered.
type Row map[string]string

// ReadRows parses a brokerage CSV stream into ordered raw rows. Rows shorter
// than the header are padded with empty cells; extra cells are dropped.
func ReadRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	// Exports from the brokerage carry a UTF-8 BOM on the first header cell.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ReadFile reads raw rows from a CSV file on disk. A missing file is reported
// as ErrNoData so callers can distinguish "nothing to analyze" from a corrupt
// source.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoData, path)
		}
		return nil, fmt.Errorf("failed to open portfolio file: %w", err)
	}
	defer f.Close()

	return ReadRows(f)
}
