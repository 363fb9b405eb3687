package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/heleneolivares/portfolio-evolution/internal/services"
)

func evolutionCmd(open appOpener) *cobra.Command {
	var (
		portfolioID string
		startDate   string
		endDate     string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "evolution",
		Short: "Print a portfolio's value and weights per priced date",
		Long: `Prints the total value and per-asset weights of a portfolio for every
date in the inclusive range on which at least one held asset has a price.

Example usage:
  portfolioctl evolution --portfolio=<id> --start=2024-01-01 --end=2024-12-31
  portfolioctl evolution --portfolio=<id> --start=2024-01-01 --end=2024-12-31 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := time.Parse(time.DateOnly, startDate)
			if err != nil {
				return fmt.Errorf("invalid --start %q, expected YYYY-MM-DD", startDate)
			}
			end, err := time.Parse(time.DateOnly, endDate)
			if err != nil {
				return fmt.Errorf("invalid --end %q, expected YYYY-MM-DD", endDate)
			}

			return withApp(open, func(a *app) error {
				points, err := a.evolution.Evolution(portfolioID, start, end)
				if err != nil {
					return err
				}

				series := services.NewEvolutionResponse(points)
				if asJSON {
					encoder := json.NewEncoder(cmd.OutOrStdout())
					encoder.SetIndent("", "  ")
					return encoder.Encode(series)
				}
				return printSeries(cmd, series)
			})
		},
	}

	cmd.Flags().StringVar(&portfolioID, "portfolio", "", "Portfolio ID")
	cmd.Flags().StringVar(&startDate, "start", "", "First date, YYYY-MM-DD")
	cmd.Flags().StringVar(&endDate, "end", "", "Last date, YYYY-MM-DD")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	_ = cmd.MarkFlagRequired("portfolio")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func printSeries(cmd *cobra.Command, series []services.SnapshotResponse) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTOTAL_VALUE\tWEIGHTS")
	for _, s := range series {
		tickers := make([]string, 0, len(s.Weights))
		for ticker := range s.Weights {
			tickers = append(tickers, ticker)
		}
		sort.Strings(tickers)

		weights := make([]string, len(tickers))
		for i, ticker := range tickers {
			weights[i] = ticker + "=" + s.Weights[ticker]
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Date, s.TotalValue, strings.Join(weights, " "))
	}
	return w.Flush()
}
