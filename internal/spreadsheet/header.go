package spreadsheet

import (
	"fmt"
	"sort"
	"strings"
)

// Canonical column names of the weights sheet.
const (
	ColAnchorDate = "anchor_date"
	ColTicker     = "ticker"
)

// WeightColumn returns the canonical name of the n-th (1-based) weight column.
func WeightColumn(n int) string {
	return fmt.Sprintf("weight_%d", n)
}

// AliasTable maps a canonical column name to every header accepted for it.
// Headers are compared after NormalizeHeader.
type AliasTable map[string][]string

// WeightsAliases builds the alias table of a weights sheet holding weight
// columns for the given number of portfolios.
func WeightsAliases(portfolios int) AliasTable {
	table := AliasTable{
		ColAnchorDate: {"anchor_date", "fecha", "date", "fecha inicial"},
		ColTicker:     {"ticker", "activos", "activo", "asset", "assets"},
	}
	for n := 1; n <= portfolios; n++ {
		table[WeightColumn(n)] = []string{
			WeightColumn(n),
			fmt.Sprintf("portfolio_%d", n),
			fmt.Sprintf("portfolio %d", n),
			fmt.Sprintf("portafolio %d", n),
			fmt.Sprintf("portafolio_%d", n),
		}
	}
	return table
}

// NormalizeHeader trims and lower-cases a header cell.
func NormalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// Required returns the canonical names of the table, sorted.
func (a AliasTable) Required() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve maps each canonical name to its column index in header. The first
// matching column wins. Canonical names with no matching column are
// returned in missing, sorted.
func (a AliasTable) Resolve(header []string) (columns map[string]int, missing []string) {
	lookup := make(map[string]string)
	for canonical, variants := range a {
		for _, v := range variants {
			lookup[NormalizeHeader(v)] = canonical
		}
	}

	columns = make(map[string]int, len(a))
	for i, h := range header {
		canonical, ok := lookup[NormalizeHeader(h)]
		if !ok {
			continue
		}
		if _, seen := columns[canonical]; !seen {
			columns[canonical] = i
		}
	}

	for _, name := range a.Required() {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	return columns, missing
}

// normalizedHeaders returns the non-blank normalized headers, for error messages.
func normalizedHeaders(header []string) []string {
	out := make([]string, 0, len(header))
	for _, h := range header {
		if n := NormalizeHeader(h); n != "" {
			out = append(out, n)
		}
	}
	return out
}
