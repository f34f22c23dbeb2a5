package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyStats is a rolled-up snapshot of the prediction ledger for one UTC
// day, rebuilt periodically by the stats service. Money-like sums are stored
// as numeric to avoid float errors.
type DailyStats struct {
	ID  uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Day time.Time `gorm:"type:date;not null;uniqueIndex" json:"day"`

	TotalPredictions int64 `gorm:"not null" json:"total_predictions"`
	LowCount         int64 `gorm:"not null" json:"low_count"`
	MediumCount      int64 `gorm:"not null" json:"medium_count"`
	HighCount        int64 `gorm:"not null" json:"high_count"`
	AlertCount       int64 `gorm:"not null" json:"alert_count"`

	AvgProbability     float64         `gorm:"not null" json:"avg_probability"`
	RequestedAmountUSD decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"requested_amount_usd"`

	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (DailyStats) TableName() string {
	return "prediction_daily_stats"
}
