package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func loadCmd(open appOpener) *cobra.Command {
	var excelPath string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Ingest a weights and prices workbook",
		Long: `Reads the WEIGHTS and PRICES sheets of a workbook and stores assets,
prices, portfolios and positions in a single transaction. Nothing is written
when the workbook is rejected.

Example usage:
  portfolioctl load                          # uses EXCEL_PATH
  portfolioctl load --excel-path=datos.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app) error {
				path := excelPath
				if path == "" {
					path = a.cfg.ExcelPath
				}

				report, err := a.ingestion.LoadPortfolioData(path)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Loaded %s (anchor date %s)\n", report.Source, report.AnchorDate)
				fmt.Fprintf(out, "assets=%d prices=%d positions=%d skipped_rows=%d\n",
					report.Assets, report.Prices, report.Positions, report.SkippedRows)

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "PORTFOLIO\tID\tCREATED\tPOSITIONS")
				for _, p := range report.Portfolios {
					fmt.Fprintf(w, "%s\t%s\t%t\t%d\n", p.Name, p.ID, p.Created, p.Positions)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&excelPath, "excel-path", "", "Workbook to load (defaults to EXCEL_PATH)")
	return cmd
}
