package spreadsheet

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/heleneolivares/portfolio-evolution/internal/errors"
)

// WeightRow is one allocation line of the weights sheet. Weights[i] is the
// target weight for the (i+1)-th portfolio, nil when the cell is empty.
type WeightRow struct {
	Line       int
	AnchorDate string
	Ticker     string
	Weights    []*decimal.Decimal
}

// WeightsSheet is a weights table whose columns have been resolved.
type WeightsSheet struct {
	table      *Table
	columns    map[string]int
	portfolios int
}

// ParseWeights resolves the columns of the weights table for the given
// number of portfolios. Missing canonical columns fail with ErrSchema.
func ParseWeights(table *Table, portfolios int) (*WeightsSheet, error) {
	aliases := WeightsAliases(portfolios)
	columns, missing := aliases.Resolve(table.Header)
	if len(missing) > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrSchema,
			fmt.Sprintf("Sheet %q must have columns %v; found %v (missing %v)",
				table.Name, aliases.Required(), normalizedHeaders(table.Header), missing))
	}
	return &WeightsSheet{table: table, columns: columns, portfolios: portfolios}, nil
}

// Rows yields the non-blank rows of the sheet in order. A weight cell that is
// not a number yields an ErrSchema error and stops the sequence. The
// sequence can be ranged over any number of times.
func (s *WeightsSheet) Rows() iter.Seq2[WeightRow, error] {
	return func(yield func(WeightRow, error) bool) {
		for i, raw := range s.table.Rows {
			if blank(raw) {
				continue
			}
			line := i + 2
			row := WeightRow{
				Line:       line,
				AnchorDate: cell(raw, s.columns[ColAnchorDate]),
				Ticker:     strings.TrimSpace(cell(raw, s.columns[ColTicker])),
				Weights:    make([]*decimal.Decimal, s.portfolios),
			}
			for n := 1; n <= s.portfolios; n++ {
				value := cell(raw, s.columns[WeightColumn(n)])
				w, err := ParseDecimal(value)
				if err != nil {
					yield(WeightRow{}, apperrors.WithMessage(apperrors.ErrSchema,
						fmt.Sprintf("Invalid %s value %q on row %d of sheet %q", WeightColumn(n), value, line, s.table.Name)))
					return
				}
				row.Weights[n-1] = w
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// Sums returns the sum of the non-missing weights of each portfolio.
func (s *WeightsSheet) Sums() ([]decimal.Decimal, error) {
	sums := make([]decimal.Decimal, s.portfolios)
	for row, err := range s.Rows() {
		if err != nil {
			return nil, err
		}
		for i, w := range row.Weights {
			if w != nil {
				sums[i] = sums[i].Add(*w)
			}
		}
	}
	return sums, nil
}

// AnchorDate parses the anchor date of the first row. A missing or
// unparseable value fails with ErrDateParse.
func (s *WeightsSheet) AnchorDate() (time.Time, error) {
	for row, err := range s.Rows() {
		if err != nil {
			return time.Time{}, err
		}
		t, perr := ParseDate(row.AnchorDate)
		if perr != nil {
			return time.Time{}, apperrors.Wrap(apperrors.WithMessage(apperrors.ErrDateParse,
				fmt.Sprintf("Invalid anchor date %q in sheet %q (column %s)", row.AnchorDate, s.table.Name, ColAnchorDate)), perr)
		}
		return t, nil
	}
	return time.Time{}, apperrors.WithMessage(apperrors.ErrDateParse,
		fmt.Sprintf("Sheet %q has no rows to read the anchor date from", s.table.Name))
}
