package services

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heleneolivares/portfolio-evolution/internal/decimalutil"
	apperrors "github.com/heleneolivares/portfolio-evolution/internal/errors"
	"github.com/heleneolivares/portfolio-evolution/internal/logger"
	"github.com/heleneolivares/portfolio-evolution/internal/models"
	"github.com/heleneolivares/portfolio-evolution/internal/spreadsheet"
	"github.com/heleneolivares/portfolio-evolution/internal/store"
)

// ingestionService loads the portfolio workbook into the store.
type ingestionService struct {
	store          *store.Store
	audit          AuditServicer
	portfolioNames []string
	initialValue   decimal.Decimal
}

// NewIngestionService creates a new IngestionServicer. The Nth weight column
// of the workbook feeds the Nth name in portfolioNames; portfolios created by
// a run start with initialValue.
func NewIngestionService(st *store.Store, audit AuditServicer, portfolioNames []string, initialValue decimal.Decimal) IngestionServicer {
	return &ingestionService{
		store:          st,
		audit:          audit,
		portfolioNames: portfolioNames,
		initialValue:   initialValue,
	}
}

// LoadPortfolioData ingests the workbook stored at path.
func (s *ingestionService) LoadPortfolioData(path string) (*IngestionReport, error) {
	origin := Origin{Source: path}

	wb, err := spreadsheet.Open(path)
	if err != nil {
		s.record(origin, nil, err, 0)
		return nil, err
	}
	defer wb.Close()

	return s.ingest(wb, origin)
}

// LoadWorkbook ingests a workbook read from r, typically an upload.
func (s *ingestionService) LoadWorkbook(r io.Reader, origin Origin) (*IngestionReport, error) {
	wb, err := spreadsheet.OpenReader(r)
	if err != nil {
		s.record(origin, nil, err, 0)
		return nil, err
	}
	defer wb.Close()

	return s.ingest(wb, origin)
}

func (s *ingestionService) ingest(wb *spreadsheet.Workbook, origin Origin) (*IngestionReport, error) {
	start := time.Now()
	logger.Named("ingestion").Infow("ingestion started", "source", origin.Source)

	report, err := s.run(wb, origin.Source)
	s.record(origin, report, err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return report, nil
}

// run executes every validation and write of a load inside one transaction.
// Any error rolls back all writes of the run.
func (s *ingestionService) run(wb *spreadsheet.Workbook, source string) (*IngestionReport, error) {
	if len(s.portfolioNames) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "No portfolios configured")
	}

	weightsTable, err := wb.Table(spreadsheet.WeightsSheetNames...)
	if err != nil {
		return nil, err
	}
	pricesTable, err := wb.Table(spreadsheet.PricesSheetNames...)
	if err != nil {
		return nil, err
	}

	var report *IngestionReport
	err = s.store.Transaction(func(tx *store.Store) error {
		weights, err := spreadsheet.ParseWeights(weightsTable, len(s.portfolioNames))
		if err != nil {
			return err
		}
		prices, err := spreadsheet.ParsePrices(pricesTable)
		if err != nil {
			return err
		}

		if err := s.checkWeightSums(weights); err != nil {
			return err
		}

		anchor, err := weights.AnchorDate()
		if err != nil {
			return err
		}

		report = &IngestionReport{
			Source:      source,
			AnchorDate:  anchor.Format(time.DateOnly),
			SkippedRows: prices.SkippedRows(),
		}

		assets, err := upsertAssets(tx, prices.Tickers())
		if err != nil {
			return err
		}
		report.Assets = len(assets)

		if report.Prices, err = upsertPrices(tx, prices, assets); err != nil {
			return err
		}

		initialPrices, err := resolveInitialPrices(tx, assets, anchor)
		if err != nil {
			return err
		}

		if err := checkWeightRows(weights, assets, initialPrices, anchor); err != nil {
			return err
		}

		portfolios := make([]*models.Portfolio, len(s.portfolioNames))
		report.Portfolios = make([]PortfolioLoad, len(s.portfolioNames))
		for i, name := range s.portfolioNames {
			portfolio, created, err := tx.GetOrCreatePortfolio(name, s.initialValue)
			if err != nil {
				return err
			}
			portfolios[i] = portfolio
			report.Portfolios[i] = PortfolioLoad{ID: portfolio.ID, Name: portfolio.Name, Created: created}
		}

		for row, err := range weights.Rows() {
			if err != nil {
				return err
			}
			asset := assets[row.Ticker]
			price := initialPrices[row.Ticker]
			for i, w := range row.Weights {
				if w == nil {
					continue
				}
				quantity := decimalutil.Div(w.Mul(portfolios[i].InitialValue), *price)
				if err := tx.UpsertPosition(portfolios[i].ID, asset.ID, quantity); err != nil {
					return err
				}
				report.Portfolios[i].Positions++
				report.Positions++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// checkWeightSums requires the non-missing weights of every portfolio to add up to 1.
func (s *ingestionService) checkWeightSums(weights *spreadsheet.WeightsSheet) error {
	sums, err := weights.Sums()
	if err != nil {
		return err
	}
	for i, sum := range sums {
		if !decimalutil.SumsToOne(sum) {
			return apperrors.WithMessage(apperrors.ErrWeightSum,
				fmt.Sprintf("Weights for %s (%s) sum to %s, expected 1", s.portfolioNames[i], spreadsheet.WeightColumn(i+1), sum))
		}
	}
	return nil
}

// upsertAssets gets or creates the asset of every ticker column, in column order.
func upsertAssets(tx *store.Store, tickers []string) (map[string]*models.Asset, error) {
	assets := make(map[string]*models.Asset, len(tickers))
	for _, ticker := range tickers {
		asset, err := tx.GetOrCreateAsset(ticker)
		if err != nil {
			return nil, err
		}
		assets[ticker] = asset
	}
	return assets, nil
}

// upsertPrices stores every non-missing price cell. A later row for the same
// date overwrites an earlier one.
func upsertPrices(tx *store.Store, prices *spreadsheet.PricesSheet, assets map[string]*models.Asset) (int, error) {
	count := 0
	for row, err := range prices.Rows() {
		if err != nil {
			return 0, err
		}
		for _, q := range row.Quotes {
			if err := tx.UpsertPrice(assets[q.Ticker].ID, row.Date, q.Price); err != nil {
				return 0, withTickerContext(err, q.Ticker)
			}
			count++
		}
	}
	return count, nil
}

// resolveInitialPrices looks up the anchor date price of every asset.
// Assets without one are absent from the result.
func resolveInitialPrices(tx *store.Store, assets map[string]*models.Asset, anchor time.Time) (map[string]*decimal.Decimal, error) {
	initial := make(map[string]*decimal.Decimal, len(assets))
	for ticker, asset := range assets {
		price, err := tx.FindPrice(asset.ID, anchor)
		if err != nil {
			return nil, err
		}
		if price != nil {
			p := price.Price
			initial[ticker] = &p
		}
	}
	return initial, nil
}

// checkWeightRows validates every weights row before any position is written.
func checkWeightRows(weights *spreadsheet.WeightsSheet, assets map[string]*models.Asset, initialPrices map[string]*decimal.Decimal, anchor time.Time) error {
	day := anchor.Format(time.DateOnly)
	for row, err := range weights.Rows() {
		if err != nil {
			return err
		}
		if _, ok := assets[row.Ticker]; !ok {
			return apperrors.WithMessage(apperrors.ErrUnknownTicker,
				fmt.Sprintf("Ticker %q on row %d of the weights sheet has no column in the prices sheet", row.Ticker, row.Line))
		}
		price, ok := initialPrices[row.Ticker]
		if !ok {
			return apperrors.WithMessage(apperrors.ErrMissingInitialPrice,
				fmt.Sprintf("No price for %s on anchor date %s", row.Ticker, day))
		}
		if price.IsZero() {
			return apperrors.WithMessage(apperrors.ErrZeroInitialPrice,
				fmt.Sprintf("Price for %s on anchor date %s is zero", row.Ticker, day))
		}
	}
	return nil
}

func withTickerContext(err error, ticker string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code == apperrors.ErrNegativeValue.Code {
		return apperrors.WithMessage(appErr, fmt.Sprintf("%s: %s", ticker, appErr.Message))
	}
	return err
}

// record writes the audit row and the log line of a finished run.
func (s *ingestionService) record(origin Origin, report *IngestionReport, err error, elapsed time.Duration) {
	log := logger.Named("ingestion")
	entry := AuditEntry{
		Action:   AuditActionIngest,
		Source:   origin.Source,
		ClientIP: origin.ClientIP,
	}

	if err != nil {
		code := apperrors.ErrInternalServer.Code
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			code = appErr.Code
		}
		entry.Outcome = models.AuditOutcomeFailure
		entry.ErrorCode = code
		entry.Details = map[string]any{"message": err.Error()}
		log.Warnw("ingestion rejected", "source", origin.Source, "code", code, "error", err, "duration", elapsed)
	} else {
		entry.Outcome = models.AuditOutcomeSuccess
		entry.Details = map[string]any{
			"anchor_date":  report.AnchorDate,
			"assets":       report.Assets,
			"prices":       report.Prices,
			"positions":    report.Positions,
			"skipped_rows": report.SkippedRows,
		}
		log.Infow("ingestion finished",
			"source", origin.Source,
			"anchor_date", report.AnchorDate,
			"assets", report.Assets,
			"prices", report.Prices,
			"positions", report.Positions,
			"skipped_rows", report.SkippedRows,
			"duration", elapsed,
		)
	}

	if s.audit != nil {
		s.audit.Log(entry)
	}
}
