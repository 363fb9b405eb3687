package testutil

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// WorkbookSpec describes a two-sheet workbook for ingestion tests.
type WorkbookSpec struct {
	WeightsSheet  string
	WeightsHeader []interface{}
	Weights       [][]interface{}
	PricesSheet   string
	PricesHeader  []interface{}
	Prices        [][]interface{}
}

// DefaultWorkbook returns a valid workbook: two assets priced on three days
// (the middle one with a gap for BBB) and two portfolios anchored at 2024-01-02.
//
// Portfolio 1: AAA 0.25, BBB 0.75. Portfolio 2: AAA 0.6, BBB 0.4.
func DefaultWorkbook() WorkbookSpec {
	return WorkbookSpec{
		WeightsSheet:  "weights",
		WeightsHeader: []interface{}{"Fecha", " Activos ", "Portafolio 1", "PORTAFOLIO 2"},
		Weights: [][]interface{}{
			{"2024-01-02", "AAA", 0.25, 0.6},
			{"2024-01-02", "BBB", 0.75, 0.4},
		},
		PricesSheet:  "Precios",
		PricesHeader: []interface{}{"Dates", "AAA", "BBB"},
		Prices: [][]interface{}{
			{"2024-01-02", 100, 50},
			{"2024-01-03", 110, nil},
			{"not a date", 1, 1},
			{"2024-01-04", 120, 40},
		},
	}
}

// WriteWorkbook saves spec as an .xlsx file in a temporary directory and
// returns its path.
func WriteWorkbook(t *testing.T, spec WorkbookSpec) string {
	t.Helper()

	f := buildWorkbook(t, spec)
	defer f.Close()

	path := filepath.Join(t.TempDir(), "datos.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}

// WorkbookBytes renders spec as .xlsx content, for upload tests.
func WorkbookBytes(t *testing.T, spec WorkbookSpec) []byte {
	t.Helper()

	f := buildWorkbook(t, spec)
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to render workbook: %v", err)
	}
	return buf.Bytes()
}

func buildWorkbook(t *testing.T, spec WorkbookSpec) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	first := f.GetSheetName(0)

	weights := spec.WeightsSheet
	if weights == "" {
		weights = "weights"
	}
	if err := f.SetSheetName(first, weights); err != nil {
		t.Fatalf("failed to rename sheet: %v", err)
	}
	writeRows(t, f, weights, spec.WeightsHeader, spec.Weights)

	if spec.PricesSheet != "" {
		if _, err := f.NewSheet(spec.PricesSheet); err != nil {
			t.Fatalf("failed to add sheet: %v", err)
		}
		writeRows(t, f, spec.PricesSheet, spec.PricesHeader, spec.Prices)
	}
	return f
}

func writeRows(t *testing.T, f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) {
	t.Helper()

	all := append([][]interface{}{header}, rows...)
	for i, row := range all {
		if row == nil {
			continue
		}
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("invalid cell coordinates: %v", err)
		}
		values := row
		if err := f.SetSheetRow(sheet, addr, &values); err != nil {
			t.Fatalf("failed to write row %d of %s: %v", i+1, sheet, err)
		}
	}
}
