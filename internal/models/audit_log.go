package models

// AuditLog records every ingestion run, successful or not.
type AuditLog struct {
	Base
	Action    string `gorm:"not null;index" json:"action"`
	Source    string `gorm:"not null" json:"source"`
	Outcome   string `gorm:"not null" json:"outcome"`
	ErrorCode string `json:"error_code,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
	Details   string `json:"details,omitempty"`
}

// TableName pins the table name used by the SQL migrations.
func (AuditLog) TableName() string { return "audit_log" }

// Audit outcomes.
const (
	AuditOutcomeSuccess = "success"
	AuditOutcomeFailure = "failure"
)
