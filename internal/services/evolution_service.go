package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heleneolivares/portfolio-evolution/internal/decimalutil"
	apperrors "github.com/heleneolivares/portfolio-evolution/internal/errors"
	"github.com/heleneolivares/portfolio-evolution/internal/store"
)

// evolutionService reprices stored positions over the stored price history.
// It keeps no state between calls.
type evolutionService struct {
	store *store.Store
}

// NewEvolutionService creates a new EvolutionServicer.
func NewEvolutionService(st *store.Store) EvolutionServicer {
	return &evolutionService{store: st}
}

// Evolution returns the value and composition of a portfolio on every day in
// [start, end] on which at least one of its assets has a price, ascending.
// Assets without a price on a day are left out of that day's total.
func (s *evolutionService) Evolution(portfolioID string, start, end time.Time) ([]EvolutionPoint, error) {
	start, end = store.Day(start), store.Day(end)
	if start.After(end) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidRange,
			fmt.Sprintf("start_date %s is after end_date %s", start.Format(time.DateOnly), end.Format(time.DateOnly)))
	}

	if _, err := s.store.GetPortfolio(portfolioID); err != nil {
		return nil, err
	}

	positions, err := s.store.ListPositions(portfolioID)
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return nil, apperrors.ErrNoPositions
	}

	assetIDs := make([]string, len(positions))
	quantities := make(map[string]decimal.Decimal, len(positions))
	for i, p := range positions {
		assetIDs[i] = p.AssetID
		quantities[p.AssetID] = p.Quantity
	}

	dates, err := s.store.AvailablePriceDates(assetIDs, start, end)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return []EvolutionPoint{}, nil
	}

	prices, err := s.store.ListPrices(assetIDs, start, end)
	if err != nil {
		return nil, err
	}

	// Prices arrive ordered by (date, ticker), so each day's slice is ticker-ordered.
	byDay := make(map[time.Time][]AssetWeight, len(dates))
	for _, p := range prices {
		day := store.Day(p.Date)
		byDay[day] = append(byDay[day], AssetWeight{
			Ticker: p.Asset.Ticker,
			Value:  quantities[p.AssetID].Mul(p.Price),
		})
	}

	points := make([]EvolutionPoint, 0, len(dates))
	for _, day := range dates {
		points = append(points, newEvolutionPoint(day, byDay[day]))
	}
	return points, nil
}

// Snapshot returns the value and composition of a portfolio on a single day.
func (s *evolutionService) Snapshot(portfolioID string, date time.Time) (*EvolutionPoint, error) {
	points, err := s.Evolution(portfolioID, date, date)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrNoDataForDate,
			fmt.Sprintf("No price data for this portfolio on %s", store.Day(date).Format(time.DateOnly)))
	}
	return &points[0], nil
}

// newEvolutionPoint totals the asset values of a day and derives each asset's
// weight. A zero total gives every asset a zero weight.
func newEvolutionPoint(day time.Time, assets []AssetWeight) EvolutionPoint {
	total := decimal.Zero
	for _, a := range assets {
		total = total.Add(a.Value)
	}

	for i := range assets {
		if total.IsZero() {
			assets[i].Weight = decimal.Zero
			continue
		}
		assets[i].Weight = decimalutil.Div(assets[i].Value, total)
	}

	return EvolutionPoint{Date: day, TotalValue: total, Weights: assets}
}

// SnapshotResponse is the serialized form of an EvolutionPoint: money with
// two decimals, weights with six, both rounded half-up.
type SnapshotResponse struct {
	Date       string            `json:"date" example:"2024-01-02"`
	TotalValue string            `json:"total_value" example:"500.00"`
	Weights    map[string]string `json:"weights"`
}

// NewSnapshotResponse serializes p.
func NewSnapshotResponse(p EvolutionPoint) SnapshotResponse {
	weights := make(map[string]string, len(p.Weights))
	for _, w := range p.Weights {
		weights[w.Ticker] = decimalutil.FormatWeight(w.Weight)
	}
	return SnapshotResponse{
		Date:       p.Date.Format(time.DateOnly),
		TotalValue: decimalutil.FormatMoney(p.TotalValue),
		Weights:    weights,
	}
}

// NewEvolutionResponse serializes a series of points in order.
func NewEvolutionResponse(points []EvolutionPoint) []SnapshotResponse {
	out := make([]SnapshotResponse, len(points))
	for i, p := range points {
		out[i] = NewSnapshotResponse(p)
	}
	return out
}
