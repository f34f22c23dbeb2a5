package models

import (
	"time"

	"gorm.io/datatypes"
)

// PredictionLog is one row of the append-only prediction ledger. Features
// hold the validated application exactly as the caller sent it, so the audit
// trail preserves the raw DTI form (ratio or percent) and original field
// values after case canonicalization.
type PredictionLog struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`

	ApplicationID *string        `gorm:"type:varchar(64);index" json:"application_id"`
	Features      datatypes.JSON `gorm:"type:jsonb;not null" json:"features"`

	Probability    float64 `gorm:"not null" json:"probability"`
	RiskCategory   string  `gorm:"type:varchar(16);not null;index" json:"risk_category"`
	AlertTriggered bool    `gorm:"not null;index" json:"alert_triggered"`
}

func (PredictionLog) TableName() string {
	return "prediction_logs"
}
