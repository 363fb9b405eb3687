package spreadsheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/heleneolivares/portfolio-evolution/internal/decimalutil"
)

// dateLayouts are the textual date forms accepted besides Excel serial numbers.
// Slash dates are month-first.
var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
}

// ParseDate parses a cell holding a date. Raw cells carry dates as Excel
// serial numbers; text cells are tried against dateLayouts. The result is
// midnight UTC of that day.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if isMissing(s) {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, fmt.Errorf("invalid date serial %q", s)
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date serial %q: %w", s, err)
		}
		return day(t), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseDecimal parses a numeric cell. A missing cell yields nil.
func ParseDecimal(raw string) (*decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if isMissing(s) {
		return nil, nil
	}
	d, err := decimalutil.Parse(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// isMissing reports whether a cell is empty or holds a spreadsheet NaN marker.
func isMissing(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "#n/a":
		return true
	}
	return false
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
