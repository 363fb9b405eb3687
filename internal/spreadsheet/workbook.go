// Package spreadsheet reads the portfolio workbook: a "weights" sheet with
// the target allocation of each portfolio and a prices sheet with one column
// per ticker. Sheets are exposed as typed, restartable row sequences.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/heleneolivares/portfolio-evolution/internal/errors"
)

// Accepted sheet names, compared after NormalizeHeader.
var (
	WeightsSheetNames = []string{"weights"}
	PricesSheetNames  = []string{"precios", "prices"}
)

// Workbook is an open spreadsheet file.
type Workbook struct {
	file *excelize.File
}

// Table is the raw content of one sheet: its first row as header and the
// remaining rows as unparsed cell text.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.WithMessage(apperrors.ErrSourceNotFound,
				fmt.Sprintf("Spreadsheet not found at: %s", path))
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.WithMessage(apperrors.ErrSchema,
			fmt.Sprintf("Cannot read workbook %s", path)), err)
	}
	return &Workbook{file: f}, nil
}

// OpenReader reads a workbook from r, typically an uploaded file.
func OpenReader(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.WithMessage(apperrors.ErrSchema, "Cannot read workbook"), err)
	}
	return &Workbook{file: f}, nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Table returns the first sheet whose normalized name is one of names.
func (w *Workbook) Table(names ...string) (*Table, error) {
	sheet := ""
	for _, candidate := range w.file.GetSheetList() {
		normalized := NormalizeHeader(candidate)
		for _, name := range names {
			if normalized == name {
				sheet = candidate
				break
			}
		}
		if sheet != "" {
			break
		}
	}
	if sheet == "" {
		return nil, apperrors.WithMessage(apperrors.ErrSchema,
			fmt.Sprintf("Workbook has no sheet named %v (found %v)", names, w.file.GetSheetList()))
	}

	rows, err := w.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.WithMessage(apperrors.ErrSchema,
			fmt.Sprintf("Cannot read sheet %q", sheet)), err)
	}

	table := &Table{Name: sheet}
	if len(rows) > 0 {
		table.Header = rows[0]
		table.Rows = rows[1:]
	}
	return table, nil
}

// cell returns row[i], or "" when the row is shorter than i.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// blank reports whether every cell of row is empty.
func blank(row []string) bool {
	for _, c := range row {
		if !isMissing(c) {
			return false
		}
	}
	return true
}
