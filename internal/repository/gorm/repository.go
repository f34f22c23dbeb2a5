// Package gormrepo implements the ledger repository on GORM/Postgres.
package gormrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"loanrisk/internal/models"
	"loanrisk/internal/repository"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type Store struct {
	db           *gorm.DB
	defaultLimit int
	maxLimit     int
}

// New builds a Store with the given page-size bounds; non-positive values
// fall back to the package defaults.
func New(db *gorm.DB, defaultLimit, maxLimit int) *Store {
	if defaultLimit <= 0 {
		defaultLimit = defaultListLimit
	}
	if maxLimit <= 0 {
		maxLimit = maxListLimit
	}
	return &Store{db: db, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

var _ repository.Repository = (*Store)(nil)

func (s *Store) InsertPrediction(ctx context.Context, p *models.PredictionLog) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

func (s *Store) InsertAlert(ctx context.Context, a *models.RiskAlert) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

func (s *Store) ListRecentPredictions(ctx context.Context, params repository.ListPredictionsParams) ([]models.PredictionLog, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.PredictionLog{})
	if params.ApplicationID != nil {
		q = q.Where("application_id = ?", *params.ApplicationID)
	}
	if params.RiskCategory != nil {
		q = q.Where("risk_category = ?", *params.RiskCategory)
	}
	if params.AlertTriggered != nil {
		q = q.Where("alert_triggered = ?", *params.AlertTriggered)
	}
	q = applyWindow(q, params.Since, params.Until)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count predictions: %w", err)
	}

	var rows []models.PredictionLog
	err := q.Order("created_at DESC, id DESC").
		Limit(s.normalizeLimit(params.Limit)).
		Offset(normalizeOffset(params.Offset)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list predictions: %w", err)
	}
	return rows, total, nil
}

func (s *Store) ListRecentAlerts(ctx context.Context, params repository.ListAlertsParams) ([]models.RiskAlert, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.RiskAlert{})
	if params.Severity != nil {
		q = q.Where("severity = ?", *params.Severity)
	}
	q = applyWindow(q, params.Since, params.Until)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count alerts: %w", err)
	}

	var rows []models.RiskAlert
	err := q.Order("created_at DESC, id DESC").
		Limit(s.normalizeLimit(params.Limit)).
		Offset(normalizeOffset(params.Offset)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list alerts: %w", err)
	}
	return rows, total, nil
}

func (s *Store) CollectStats(ctx context.Context, window repository.StatsWindow) (*repository.LedgerStats, error) {
	var row struct {
		TotalPredictions   int64
		LowCount           int64
		MediumCount        int64
		HighCount          int64
		AlertCount         int64
		AvgProbability     float64
		RequestedAmountUSD decimal.Decimal
	}
	q := s.db.WithContext(ctx).Model(&models.PredictionLog{}).
		Select(`COUNT(*) AS total_predictions,
			COUNT(*) FILTER (WHERE risk_category = 'LOW') AS low_count,
			COUNT(*) FILTER (WHERE risk_category = 'MEDIUM') AS medium_count,
			COUNT(*) FILTER (WHERE risk_category = 'HIGH') AS high_count,
			COUNT(*) FILTER (WHERE alert_triggered) AS alert_count,
			COALESCE(AVG(probability), 0) AS avg_probability,
			COALESCE(SUM((features->>'loan_amount')::numeric), 0) AS requested_amount_usd`)
	if !window.Since.IsZero() {
		q = q.Where("created_at >= ?", window.Since)
	}
	if !window.Until.IsZero() {
		q = q.Where("created_at < ?", window.Until)
	}
	if err := q.Scan(&row).Error; err != nil {
		return nil, fmt.Errorf("collect ledger stats: %w", err)
	}
	return &repository.LedgerStats{
		TotalPredictions:   row.TotalPredictions,
		LowCount:           row.LowCount,
		MediumCount:        row.MediumCount,
		HighCount:          row.HighCount,
		AlertCount:         row.AlertCount,
		AvgProbability:     row.AvgProbability,
		RequestedAmountUSD: row.RequestedAmountUSD,
	}, nil
}

func (s *Store) UpsertDailyStats(ctx context.Context, st *models.DailyStats) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "day"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_predictions", "low_count", "medium_count", "high_count",
				"alert_count", "avg_probability", "requested_amount_usd", "updated_at",
			}),
		}).
		Create(st).Error
	if err != nil {
		return fmt.Errorf("upsert daily stats: %w", err)
	}
	return nil
}

func (s *Store) ListDailyStats(ctx context.Context, days int) ([]models.DailyStats, error) {
	if days <= 0 {
		days = 7
	}
	var rows []models.DailyStats
	err := s.db.WithContext(ctx).
		Order("day DESC").
		Limit(days).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list daily stats: %w", err)
	}
	return rows, nil
}

func applyWindow(q *gorm.DB, since, until *time.Time) *gorm.DB {
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	if until != nil {
		q = q.Where("created_at < ?", *until)
	}
	return q
}

func (s *Store) normalizeLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
