package portfolio

import (
	"strings"
	"time"

	"github.com/aristath/optionsentry/internal/domain"
	"github.com/aristath/optionsentry/internal/modules/symbols"
	"github.com/rs/zerolog"
)

// Assembler turns raw CSV rows into a typed Portfolio. It is stateless; every
// call recomputes everything from the rows it is given, so concurrent runs
// over different snapshots share nothing.
type Assembler struct {
	log zerolog.Logger
}

// NewAssembler creates a new portfolio assembler
func NewAssembler(log zerolog.Logger) *Assembler {
	return &Assembler{
		log: log.With().Str("component", "assembler").Logger(),
	}
}

// Assemble iterates rows once, in file order, routing each through the symbol
// classifier and the defensive numeric parsers.
//
// Stocks accumulate into a map keyed by upper-cased ticker; the export is
// expected to have one row per holding, so a later duplicate overwrites the
// earlier one rather than summing. Stock rows with quantity <= 0 are dropped.
//
// Option rows keep their signed quantity (negative = short) and accumulate in
// file order; duplicate option symbols stay as distinct lots.
func (a *Assembler) Assemble(rows []Row, today time.Time) domain.Portfolio {
	result := domain.Portfolio{
		Stocks: make(map[string]int),
	}

	for _, row := range rows {
		symbol := strings.TrimSpace(row[ColSymbol])
		if symbol == "" {
			continue
		}

		class, desc := symbols.Classify(symbol)
		switch class {
		case symbols.ClassExcluded:
			a.log.Debug().Str("symbol", symbol).Msg("Skipping excluded row")

		case symbols.ClassOption:
			opt := domain.NewOptionPosition(
				symbol,
				*desc,
				ParseQuantity(row[ColQuantity], 0),
				ParseNumeric(row[ColPricePaid], 0),
				ParseNumeric(row[ColLastPrice], 0),
				ParseNumeric(row[ColDaysGain], 0),
				ParseNumeric(row[ColTotalGain], 0),
				ParseNumeric(row[ColTotalGainPct], 0),
				ParseNumeric(row[ColValue], 0),
				today,
			)
			result.Options = append(result.Options, opt)

		case symbols.ClassStock:
			quantity := ParseQuantity(row[ColQuantity], 0)
			if quantity <= 0 {
				a.log.Debug().Str("symbol", symbol).Int("quantity", quantity).Msg("Dropping non-positive stock quantity")
				continue
			}
			result.Stocks[strings.ToUpper(symbol)] = quantity
		}
	}

	return result
}

// Service loads and assembles the portfolio from a configured CSV path.
type Service struct {
	csvPath   string
	assembler *Assembler
	log       zerolog.Logger
}

// NewService creates a new portfolio service
func NewService(csvPath string, log zerolog.Logger) *Service {
	return &Service{
		csvPath:   csvPath,
		assembler: NewAssembler(log),
		log:       log.With().Str("service", "portfolio").Logger(),
	}
}

// Load reads the configured CSV and assembles it against the given reference
// date. Returns ErrNoData when the file is missing; never a partial result.
func (s *Service) Load(today time.Time) (*domain.Portfolio, error) {
	rows, err := ReadFile(s.csvPath)
	if err != nil {
		return nil, err
	}

	p := s.assembler.Assemble(rows, today)
	s.log.Debug().
		Int("stocks", len(p.Stocks)).
		Int("options", len(p.Options)).
		Msg("Portfolio assembled")

	return &p, nil
}
