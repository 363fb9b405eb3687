package services

import (
	"github.com/heleneolivares/portfolio-evolution/internal/models"
	"github.com/heleneolivares/portfolio-evolution/internal/pagination"
	"github.com/heleneolivares/portfolio-evolution/internal/store"
)

// portfolioService handles read access to portfolios and their positions.
type portfolioService struct {
	store *store.Store
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(st *store.Store) PortfolioServicer {
	return &portfolioService{store: st}
}

// ListPortfolios returns a page of portfolios ordered by name.
func (s *portfolioService) ListPortfolios(page pagination.PageRequest) (*pagination.PageResponse[models.Portfolio], error) {
	return s.store.ListPortfolios(page)
}

// GetPortfolio returns a portfolio with its positions.
func (s *portfolioService) GetPortfolio(id string) (*PortfolioDetail, error) {
	portfolio, err := s.store.GetPortfolio(id)
	if err != nil {
		return nil, err
	}

	positions, err := s.store.ListPositions(id)
	if err != nil {
		return nil, err
	}

	detail := &PortfolioDetail{Portfolio: *portfolio, Positions: make([]PositionView, 0, len(positions))}
	for _, p := range positions {
		detail.Positions = append(detail.Positions, PositionView{
			AssetID:  p.AssetID,
			Ticker:   p.Asset.Ticker,
			Quantity: p.Quantity,
		})
	}
	return detail, nil
}
