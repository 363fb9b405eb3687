package testutil

import (
	"testing"
	"time"

	"github.com/heleneolivares/portfolio-evolution/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// D parses a decimal literal, failing the test on malformed input.
func D(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal literal %q: %v", s, err)
	}
	return d
}

// CreateTestAsset creates an asset with the given ticker.
func CreateTestAsset(t *testing.T, db *gorm.DB, ticker string) *models.Asset {
	t.Helper()

	asset := &models.Asset{Ticker: ticker}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestPrice records the price of an asset on a day.
func CreateTestPrice(t *testing.T, db *gorm.DB, assetID string, day time.Time, price string) *models.AssetPrice {
	t.Helper()

	row := &models.AssetPrice{AssetID: assetID, Date: day, Price: D(t, price)}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("failed to create test price: %v", err)
	}
	return row
}

// CreateTestPortfolio creates a portfolio with the given name and initial value.
func CreateTestPortfolio(t *testing.T, db *gorm.DB, name, initialValue string) *models.Portfolio {
	t.Helper()

	portfolio := &models.Portfolio{Name: name, InitialValue: D(t, initialValue)}
	if err := db.Create(portfolio).Error; err != nil {
		t.Fatalf("failed to create test portfolio: %v", err)
	}
	return portfolio
}

// CreateTestPosition creates a position of quantity units of an asset.
func CreateTestPosition(t *testing.T, db *gorm.DB, portfolioID, assetID, quantity string) *models.PortfolioPosition {
	t.Helper()

	position := &models.PortfolioPosition{PortfolioID: portfolioID, AssetID: assetID, Quantity: D(t, quantity)}
	if err := db.Create(position).Error; err != nil {
		t.Fatalf("failed to create test position: %v", err)
	}
	return position
}
