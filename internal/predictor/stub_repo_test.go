package predictor

import (
	"context"
	"errors"

	"loanrisk/internal/models"
	"loanrisk/internal/repository"
)

// stubLedger is a test-only in-memory implementation of
// repository.Repository. Insert failures are switchable per table to
// exercise the best-effort write paths.
type stubLedger struct {
	predictions []models.PredictionLog
	alerts      []models.RiskAlert
	daily       []models.DailyStats

	failPredictions bool
	failAlerts      bool
	nextID          uint64
}

func (s *stubLedger) InsertPrediction(ctx context.Context, p *models.PredictionLog) error {
	if s.failPredictions {
		return errors.New("prediction insert refused")
	}
	s.nextID++
	p.ID = s.nextID
	s.predictions = append(s.predictions, *p)
	return nil
}

func (s *stubLedger) InsertAlert(ctx context.Context, a *models.RiskAlert) error {
	if s.failAlerts {
		return errors.New("alert insert refused")
	}
	a.ID = uint64(len(s.alerts) + 1)
	s.alerts = append(s.alerts, *a)
	return nil
}

func (s *stubLedger) ListRecentPredictions(ctx context.Context, params repository.ListPredictionsParams) ([]models.PredictionLog, int64, error) {
	return s.predictions, int64(len(s.predictions)), nil
}

func (s *stubLedger) ListRecentAlerts(ctx context.Context, params repository.ListAlertsParams) ([]models.RiskAlert, int64, error) {
	return s.alerts, int64(len(s.alerts)), nil
}

func (s *stubLedger) CollectStats(ctx context.Context, window repository.StatsWindow) (*repository.LedgerStats, error) {
	stats := &repository.LedgerStats{TotalPredictions: int64(len(s.predictions))}
	for _, p := range s.predictions {
		switch p.RiskCategory {
		case "LOW":
			stats.LowCount++
		case "MEDIUM":
			stats.MediumCount++
		case "HIGH":
			stats.HighCount++
		}
		if p.AlertTriggered {
			stats.AlertCount++
		}
	}
	return stats, nil
}

func (s *stubLedger) UpsertDailyStats(ctx context.Context, st *models.DailyStats) error {
	for i := range s.daily {
		if s.daily[i].Day.Equal(st.Day) {
			s.daily[i] = *st
			return nil
		}
	}
	s.daily = append(s.daily, *st)
	return nil
}

func (s *stubLedger) ListDailyStats(ctx context.Context, days int) ([]models.DailyStats, error) {
	return s.daily, nil
}
