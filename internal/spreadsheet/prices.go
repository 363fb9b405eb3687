package spreadsheet

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/heleneolivares/portfolio-evolution/internal/errors"
)

// Quote is one non-missing price cell.
type Quote struct {
	Ticker string
	Price  decimal.Decimal
}

// PriceRow is one dated row of the prices sheet.
type PriceRow struct {
	Line   int
	Date   time.Time
	Quotes []Quote
}

// PricesSheet is a prices table: the first column holds dates and every
// other non-blank header is a ticker.
type PricesSheet struct {
	table   *Table
	tickers []string
	columns []int
}

// ParsePrices validates that the table has a date column and at least one
// ticker column.
func ParsePrices(table *Table) (*PricesSheet, error) {
	if len(table.Header) < 2 {
		return nil, apperrors.WithMessage(apperrors.ErrSchema,
			fmt.Sprintf("Sheet %q must have a date column and at least one asset column", table.Name))
	}

	sheet := &PricesSheet{table: table}
	seen := make(map[string]bool)
	for i := 1; i < len(table.Header); i++ {
		ticker := strings.TrimSpace(table.Header[i])
		if ticker == "" {
			continue
		}
		if seen[ticker] {
			return nil, apperrors.WithMessage(apperrors.ErrSchema,
				fmt.Sprintf("Sheet %q lists ticker %q twice", table.Name, ticker))
		}
		seen[ticker] = true
		sheet.tickers = append(sheet.tickers, ticker)
		sheet.columns = append(sheet.columns, i)
	}
	if len(sheet.tickers) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrSchema,
			fmt.Sprintf("Sheet %q must have a date column and at least one asset column", table.Name))
	}
	return sheet, nil
}

// Tickers returns the ticker columns in sheet order.
func (s *PricesSheet) Tickers() []string {
	out := make([]string, len(s.tickers))
	copy(out, s.tickers)
	return out
}

// Rows yields the rows whose date parses, in sheet order. Rows with an
// unparseable or empty date are skipped. A price cell that is not a number
// yields an ErrSchema error and stops the sequence.
func (s *PricesSheet) Rows() iter.Seq2[PriceRow, error] {
	return func(yield func(PriceRow, error) bool) {
		for i, raw := range s.table.Rows {
			date, err := ParseDate(cell(raw, 0))
			if err != nil {
				continue
			}
			line := i + 2
			row := PriceRow{Line: line, Date: date}
			for k, col := range s.columns {
				value := cell(raw, col)
				price, perr := ParseDecimal(value)
				if perr != nil {
					yield(PriceRow{}, apperrors.WithMessage(apperrors.ErrSchema,
						fmt.Sprintf("Invalid price %q for %s on row %d of sheet %q", value, s.tickers[k], line, s.table.Name)))
					return
				}
				if price == nil {
					continue
				}
				row.Quotes = append(row.Quotes, Quote{Ticker: s.tickers[k], Price: *price})
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// SkippedRows counts the non-blank rows whose date could not be parsed.
func (s *PricesSheet) SkippedRows() int {
	skipped := 0
	for _, raw := range s.table.Rows {
		if blank(raw) {
			continue
		}
		if _, err := ParseDate(cell(raw, 0)); err != nil {
			skipped++
		}
	}
	return skipped
}
