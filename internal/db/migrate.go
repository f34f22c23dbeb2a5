package db

import (
	"loanrisk/internal/models"
)

// AutoMigrate creates or updates the ledger tables. The models are
// append-only, so migrations only ever add columns and indexes.
func (d *DB) AutoMigrate() error {
	if d == nil || d.Gorm == nil {
		return nil
	}
	return d.Gorm.AutoMigrate(
		&models.PredictionLog{},
		&models.RiskAlert{},
		&models.DailyStats{},
	)
}
