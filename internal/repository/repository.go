// Package repository defines the persistence boundary for the prediction
// ledger. Implementations live in subpackages; callers depend only on the
// interface so the ledger can be stubbed in tests.
package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"loanrisk/internal/models"
)

// ListPredictionsParams filters the prediction ledger. Nil pointer fields
// mean "no filter".
type ListPredictionsParams struct {
	ApplicationID  *string
	RiskCategory   *string
	AlertTriggered *bool
	Since          *time.Time
	Until          *time.Time
	Limit          int
	Offset         int
}

// ListAlertsParams filters the alert ledger.
type ListAlertsParams struct {
	Severity *string
	Since    *time.Time
	Until    *time.Time
	Limit    int
	Offset   int
}

// StatsWindow bounds an aggregation query. Zero times mean unbounded.
type StatsWindow struct {
	Since time.Time
	Until time.Time
}

// LedgerStats is an aggregate over the prediction ledger.
type LedgerStats struct {
	TotalPredictions   int64           `json:"total_predictions"`
	LowCount           int64           `json:"low_count"`
	MediumCount        int64           `json:"medium_count"`
	HighCount          int64           `json:"high_count"`
	AlertCount         int64           `json:"alert_count"`
	AvgProbability     float64         `json:"avg_probability"`
	RequestedAmountUSD decimal.Decimal `json:"requested_amount_usd"`
}

type Repository interface {
	// InsertPrediction appends one entry to the prediction ledger and fills
	// in its generated ID.
	InsertPrediction(ctx context.Context, p *models.PredictionLog) error
	// InsertAlert appends one alert referencing a prediction entry.
	InsertAlert(ctx context.Context, a *models.RiskAlert) error

	ListRecentPredictions(ctx context.Context, params ListPredictionsParams) ([]models.PredictionLog, int64, error)
	ListRecentAlerts(ctx context.Context, params ListAlertsParams) ([]models.RiskAlert, int64, error)

	// CollectStats aggregates ledger counters over a window.
	CollectStats(ctx context.Context, window StatsWindow) (*LedgerStats, error)

	// UpsertDailyStats writes one day's snapshot, replacing any existing row
	// for the same day.
	UpsertDailyStats(ctx context.Context, s *models.DailyStats) error
	ListDailyStats(ctx context.Context, days int) ([]models.DailyStats, error)
}
