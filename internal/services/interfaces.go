package services

import (
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heleneolivares/portfolio-evolution/internal/models"
	"github.com/heleneolivares/portfolio-evolution/internal/pagination"
)

// Origin identifies where an ingestion run was started from, for the audit trail.
type Origin struct {
	Source   string
	ClientIP string
}

// PortfolioLoad summarizes what an ingestion run did to one portfolio.
type PortfolioLoad struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Created   bool   `json:"created"`
	Positions int    `json:"positions"`
}

// IngestionReport is the outcome of a successful ingestion run.
type IngestionReport struct {
	Source      string          `json:"source"`
	AnchorDate  string          `json:"anchor_date"`
	Portfolios  []PortfolioLoad `json:"portfolios"`
	Assets      int             `json:"assets"`
	Prices      int             `json:"prices"`
	Positions   int             `json:"positions"`
	SkippedRows int             `json:"skipped_rows"`
}

// IngestionServicer defines the contract for loading a portfolio workbook.
type IngestionServicer interface {
	LoadPortfolioData(path string) (*IngestionReport, error)
	LoadWorkbook(r io.Reader, origin Origin) (*IngestionReport, error)
}

// AssetWeight is the share of one asset in a portfolio's value on a day.
type AssetWeight struct {
	Ticker string
	Value  decimal.Decimal
	Weight decimal.Decimal
}

// EvolutionPoint is a portfolio's value and composition on one day.
// Weights are ordered by ticker and only cover assets priced that day.
type EvolutionPoint struct {
	Date       time.Time
	TotalValue decimal.Decimal
	Weights    []AssetWeight
}

// EvolutionServicer defines the contract for repricing a portfolio over time.
type EvolutionServicer interface {
	Evolution(portfolioID string, start, end time.Time) ([]EvolutionPoint, error)
	Snapshot(portfolioID string, date time.Time) (*EvolutionPoint, error)
}

// PositionView is one holding of a portfolio.
type PositionView struct {
	AssetID  string          `json:"asset_id"`
	Ticker   string          `json:"ticker"`
	Quantity decimal.Decimal `json:"quantity"`
}

// PortfolioDetail is a portfolio with its positions ordered by ticker.
type PortfolioDetail struct {
	models.Portfolio
	Positions []PositionView `json:"positions"`
}

// PortfolioServicer defines the contract for reading portfolios.
type PortfolioServicer interface {
	ListPortfolios(page pagination.PageRequest) (*pagination.PageResponse[models.Portfolio], error)
	GetPortfolio(id string) (*PortfolioDetail, error)
}

// AuditEntry describes one audited event.
type AuditEntry struct {
	Action    string
	Source    string
	Outcome   string
	ErrorCode string
	ClientIP  string
	Details   map[string]any
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(entry AuditEntry)
}
