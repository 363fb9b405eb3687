package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/heleneolivares/portfolio-evolution/internal/logger"
	"github.com/heleneolivares/portfolio-evolution/internal/models"
)

// Audited actions.
const (
	AuditActionIngest = "ingest"
)

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(entry AuditEntry) {
	var details string
	if entry.Details != nil {
		data, err := json.Marshal(entry.Details)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log details", "error", err, "action", entry.Action)
			details = "{}"
		} else {
			details = string(data)
		}
	}

	row := &models.AuditLog{
		Action:    entry.Action,
		Source:    entry.Source,
		Outcome:   entry.Outcome,
		ErrorCode: entry.ErrorCode,
		ClientIP:  entry.ClientIP,
		Details:   details,
	}

	if err := s.db.Create(row).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"action", entry.Action,
			"source", entry.Source,
			"outcome", entry.Outcome,
		)
	}
}
