package models

import "github.com/shopspring/decimal"

// Portfolio is a named model portfolio. InitialValue is fixed when the
// portfolio is first created and never updated afterwards.
type Portfolio struct {
	Base
	Name         string          `gorm:"size:100;not null;uniqueIndex:uq_portfolio_name" json:"name"`
	InitialValue decimal.Decimal `gorm:"type:numeric(20,2);not null;check:chk_portfolio_initial_value_non_negative,initial_value >= 0" json:"initial_value"`
}

// TableName pins the table name used by the SQL migrations.
func (Portfolio) TableName() string { return "portfolio" }

// PortfolioPosition is the quantity of an asset held by a portfolio.
type PortfolioPosition struct {
	Base
	PortfolioID string          `gorm:"type:uuid;not null;uniqueIndex:uq_portfolio_position_portfolio_asset,priority:1" json:"portfolio_id"`
	AssetID     string          `gorm:"type:uuid;not null;uniqueIndex:uq_portfolio_position_portfolio_asset,priority:2" json:"asset_id"`
	Quantity    decimal.Decimal `gorm:"type:numeric(30,10);not null;check:chk_portfolio_position_quantity_non_negative,quantity >= 0" json:"quantity"`
	Portfolio   Portfolio       `gorm:"foreignKey:PortfolioID;constraint:OnDelete:CASCADE" json:"-"`
	Asset       Asset           `gorm:"foreignKey:AssetID;constraint:OnDelete:RESTRICT" json:"asset"`
}

// TableName pins the table name used by the SQL migrations.
func (PortfolioPosition) TableName() string { return "portfolio_position" }
