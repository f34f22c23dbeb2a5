package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"loanrisk/internal/models"
	"loanrisk/internal/repository"
)

// statsStubRepo is a test-only implementation of repository.Repository that
// records the windows the snapshot service asks for.
type statsStubRepo struct {
	statsByDay map[string]*repository.LedgerStats
	windows    []repository.StatsWindow
	upserts    []models.DailyStats
}

func (s *statsStubRepo) InsertPrediction(ctx context.Context, p *models.PredictionLog) error {
	return nil
}
func (s *statsStubRepo) InsertAlert(ctx context.Context, a *models.RiskAlert) error { return nil }
func (s *statsStubRepo) ListRecentPredictions(ctx context.Context, params repository.ListPredictionsParams) ([]models.PredictionLog, int64, error) {
	return nil, 0, nil
}
func (s *statsStubRepo) ListRecentAlerts(ctx context.Context, params repository.ListAlertsParams) ([]models.RiskAlert, int64, error) {
	return nil, 0, nil
}

func (s *statsStubRepo) CollectStats(ctx context.Context, window repository.StatsWindow) (*repository.LedgerStats, error) {
	s.windows = append(s.windows, window)
	if stats, ok := s.statsByDay[window.Since.Format("2006-01-02")]; ok {
		return stats, nil
	}
	return &repository.LedgerStats{}, nil
}

func (s *statsStubRepo) UpsertDailyStats(ctx context.Context, st *models.DailyStats) error {
	s.upserts = append(s.upserts, *st)
	return nil
}

func (s *statsStubRepo) ListDailyStats(ctx context.Context, days int) ([]models.DailyStats, error) {
	return s.upserts, nil
}

func TestDailyStats_RunOnce(t *testing.T) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	yesterday := today.AddDate(0, 0, -1)

	repo := &statsStubRepo{
		statsByDay: map[string]*repository.LedgerStats{
			today.Format("2006-01-02"): {
				TotalPredictions: 10, LowCount: 6, MediumCount: 3, HighCount: 1,
				AlertCount: 1, AvgProbability: 0.31,
			},
			yesterday.Format("2006-01-02"): {
				TotalPredictions: 4, LowCount: 4, AvgProbability: 0.12,
			},
		},
	}
	svc := &DailyStatsService{Repo: repo, Logger: zap.NewNop()}

	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if len(repo.windows) != statsRebuildDays {
		t.Fatalf("queried %d windows, want %d", len(repo.windows), statsRebuildDays)
	}
	for _, w := range repo.windows {
		if !w.Until.Equal(w.Since.AddDate(0, 0, 1)) {
			t.Fatalf("window not one day wide: %+v", w)
		}
	}
	// Only days with at least one prediction are written.
	if len(repo.upserts) != 2 {
		t.Fatalf("expected 2 upserts, got %d", len(repo.upserts))
	}
	if repo.upserts[0].TotalPredictions != 10 || repo.upserts[0].HighCount != 1 {
		t.Fatalf("today snapshot wrong: %+v", repo.upserts[0])
	}
	if !repo.upserts[1].Day.Equal(yesterday) {
		t.Fatalf("yesterday snapshot wrong day: %v", repo.upserts[1].Day)
	}
}

func TestDailyStats_NilRepoIsNoop(t *testing.T) {
	svc := &DailyStatsService{}
	if err := svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("nil repo should noop: %v", err)
	}
}
