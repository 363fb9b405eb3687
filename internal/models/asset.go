package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset is a tradable instrument identified by its ticker symbol.
type Asset struct {
	Base
	Ticker string `gorm:"size:50;not null;uniqueIndex:uq_asset_ticker" json:"ticker"`
}

// TableName pins the table name used by the SQL migrations.
func (Asset) TableName() string { return "asset" }

// AssetPrice is the closing price of an asset on a given day.
type AssetPrice struct {
	Base
	AssetID string          `gorm:"type:uuid;not null;uniqueIndex:uq_asset_price_asset_date,priority:1" json:"asset_id"`
	Date    time.Time       `gorm:"type:date;not null;uniqueIndex:uq_asset_price_asset_date,priority:2;index:idx_asset_price_date" json:"date"`
	Price   decimal.Decimal `gorm:"type:numeric(20,6);not null;check:chk_asset_price_price_non_negative,price >= 0" json:"price"`
	Asset   Asset           `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE" json:"asset,omitempty"`
}

// TableName pins the table name used by the SQL migrations.
func (AssetPrice) TableName() string { return "asset_price" }
