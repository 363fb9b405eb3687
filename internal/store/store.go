// Package store implements the relational query contracts used by the
// ingestion pipeline and the evolution calculator on top of GORM.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/heleneolivares/portfolio-evolution/internal/decimalutil"
	apperrors "github.com/heleneolivares/portfolio-evolution/internal/errors"
	"github.com/heleneolivares/portfolio-evolution/internal/models"
	"github.com/heleneolivares/portfolio-evolution/internal/pagination"
	"github.com/heleneolivares/portfolio-evolution/internal/uuid"
)

// Store wraps a GORM handle. Inside Transaction the handle is the open
// transaction, so every method participates in it.
type Store struct {
	db *gorm.DB
}

// New creates a Store over db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction runs fn inside a single database transaction. The transaction
// commits only when fn returns nil; any error or panic rolls back every write
// made through the Store passed to fn.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Day truncates t to midnight UTC, the canonical form of every stored date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GetPortfolio returns the portfolio with the given id. An id that is not a
// UUID cannot name a portfolio and is reported as not found without a query.
func (s *Store) GetPortfolio(id string) (*models.Portfolio, error) {
	if !uuid.IsValid(id) {
		return nil, apperrors.ErrPortfolioNotFound
	}

	var portfolio models.Portfolio
	if err := s.db.Where("id = ?", id).First(&portfolio).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &portfolio, nil
}

// ListPortfolios returns a page of portfolios ordered by name.
func (s *Store) ListPortfolios(page pagination.PageRequest) (*pagination.PageResponse[models.Portfolio], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Portfolio{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var portfolios []models.Portfolio
	if err := base.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&portfolios).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(portfolios, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListPositions returns the positions of a portfolio with their asset
// loaded, ordered by ticker.
func (s *Store) ListPositions(portfolioID string) ([]models.PortfolioPosition, error) {
	var positions []models.PortfolioPosition
	err := s.db.
		Joins("JOIN asset ON asset.id = portfolio_position.asset_id").
		Where("portfolio_position.portfolio_id = ?", portfolioID).
		Order("asset.ticker ASC").
		Preload("Asset").
		Find(&positions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return positions, nil
}

// AvailablePriceDates returns the distinct days in [start, end] on which at
// least one of the assets has a price, ascending.
func (s *Store) AvailablePriceDates(assetIDs []string, start, end time.Time) ([]time.Time, error) {
	if len(assetIDs) == 0 {
		return nil, nil
	}

	var dates []time.Time
	err := s.db.Model(&models.AssetPrice{}).
		Where("asset_price.asset_id IN ? AND asset_price.date BETWEEN ? AND ?", assetIDs, Day(start), Day(end)).
		Distinct("date").
		Order("date ASC").
		Pluck("date", &dates).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range dates {
		dates[i] = Day(dates[i])
	}
	return dates, nil
}

// ListPrices returns the prices of the assets in [start, end] with their
// asset loaded, ordered by (date, ticker).
func (s *Store) ListPrices(assetIDs []string, start, end time.Time) ([]models.AssetPrice, error) {
	if len(assetIDs) == 0 {
		return nil, nil
	}

	var prices []models.AssetPrice
	err := s.db.
		Joins("JOIN asset ON asset.id = asset_price.asset_id").
		Where("asset_price.asset_id IN ? AND asset_price.date BETWEEN ? AND ?", assetIDs, Day(start), Day(end)).
		Order("asset_price.date ASC, asset.ticker ASC").
		Preload("Asset").
		Find(&prices).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return prices, nil
}

// FindPrice returns the price of an asset on a day, or nil when none is stored.
func (s *Store) FindPrice(assetID string, day time.Time) (*models.AssetPrice, error) {
	var price models.AssetPrice
	err := s.db.Where("asset_id = ? AND date = ?", assetID, Day(day)).First(&price).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &price, nil
}

// GetOrCreateAsset returns the asset with the given ticker, creating it if needed.
func (s *Store) GetOrCreateAsset(ticker string) (*models.Asset, error) {
	if ticker == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Ticker is required")
	}

	var asset models.Asset
	if err := s.db.Where(models.Asset{Ticker: ticker}).FirstOrCreate(&asset).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &asset, nil
}

// GetOrCreatePortfolio returns the portfolio with the given name. A missing
// portfolio is created with initialValue; an existing one keeps its own.
// The boolean reports whether the portfolio was created.
func (s *Store) GetOrCreatePortfolio(name string, initialValue decimal.Decimal) (*models.Portfolio, bool, error) {
	var portfolio models.Portfolio
	err := s.db.Where("name = ?", name).First(&portfolio).Error
	if err == nil {
		return &portfolio, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if initialValue.IsNegative() {
		return nil, false, apperrors.WithMessage(apperrors.ErrNegativeValue,
			fmt.Sprintf("Initial value for %q is negative: %s", name, initialValue))
	}

	portfolio = models.Portfolio{
		Name:         name,
		InitialValue: decimalutil.RoundHalfUp(initialValue, decimalutil.InitialValueScale),
	}
	if err := s.db.Create(&portfolio).Error; err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &portfolio, true, nil
}

// UpsertPrice inserts or overwrites the price of an asset on a day.
func (s *Store) UpsertPrice(assetID string, day time.Time, price decimal.Decimal) error {
	if price.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrNegativeValue,
			fmt.Sprintf("Negative price %s on %s", price, Day(day).Format(time.DateOnly)))
	}

	row := models.AssetPrice{
		AssetID: assetID,
		Date:    Day(day),
		Price:   decimalutil.RoundHalfUp(price, decimalutil.PriceScale),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "asset_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// UpsertPosition inserts or overwrites the quantity a portfolio holds of an asset.
func (s *Store) UpsertPosition(portfolioID, assetID string, quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrNegativeValue,
			fmt.Sprintf("Negative quantity %s", quantity))
	}

	row := models.PortfolioPosition{
		PortfolioID: portfolioID,
		AssetID:     assetID,
		Quantity:    decimalutil.RoundHalfUp(quantity, decimalutil.QuantityScale),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "portfolio_id"}, {Name: "asset_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Count returns the number of rows stored for model.
func (s *Store) Count(model interface{}) (int64, error) {
	var n int64
	if err := s.db.Model(model).Count(&n).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return n, nil
}
