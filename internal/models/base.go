package models

import (
	"time"

	"github.com/heleneolivares/portfolio-evolution/internal/uuid"

	"gorm.io/gorm"
)

// Base contains common columns for all tables. Rows are never soft-deleted:
// natural-key uniqueness (ticker, portfolio name, asset+date) must hold over
// every stored row.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// All lists every model in dependency order, for auto-migration.
func All() []interface{} {
	return []interface{}{
		&Asset{},
		&AssetPrice{},
		&Portfolio{},
		&PortfolioPosition{},
		&AuditLog{},
	}
}
