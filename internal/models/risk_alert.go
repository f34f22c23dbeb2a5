package models

import (
	"time"
)

// RiskAlert flags a HIGH-risk prediction for follow-up. An alert is owned by
// exactly one prediction; the foreign key cascades on delete so the ledger
// never holds orphan alerts.
type RiskAlert struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`

	PredictionID uint64         `gorm:"not null;index" json:"prediction_id"`
	Prediction   *PredictionLog `gorm:"foreignKey:PredictionID;constraint:OnDelete:CASCADE" json:"-"`

	Message  string `gorm:"type:varchar(255);not null" json:"message"`
	Severity string `gorm:"type:varchar(16);not null;default:'HIGH'" json:"severity"`
}

func (RiskAlert) TableName() string {
	return "risk_alerts"
}
