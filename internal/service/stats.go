// Package service holds background workers that run alongside the HTTP
// surface.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"loanrisk/internal/models"
	"loanrisk/internal/repository"
)

// statsRebuildDays bounds how far back a snapshot run reaches. Older days
// are already settled; the ledger is append-only so they cannot change.
const statsRebuildDays = 7

// DailyStatsService rebuilds the per-day ledger snapshots. RunOnce is
// scheduled by the cron runner; each run recomputes the last few UTC days
// from the raw ledger and upserts them, so a missed run heals on the next
// one.
type DailyStatsService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

// RunOnce recomputes and upserts snapshots for today and the preceding
// days in the rebuild window.
func (s *DailyStatsService) RunOnce(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < statsRebuildDays; i++ {
		day := today.AddDate(0, 0, -i)
		if err := s.rebuildDay(ctx, day); err != nil {
			return err
		}
	}
	return nil
}

func (s *DailyStatsService) rebuildDay(ctx context.Context, day time.Time) error {
	stats, err := s.Repo.CollectStats(ctx, repository.StatsWindow{
		Since: day,
		Until: day.AddDate(0, 0, 1),
	})
	if err != nil {
		return err
	}
	if stats.TotalPredictions == 0 {
		// nothing scored that day, skip the row
		return nil
	}
	return s.Repo.UpsertDailyStats(ctx, &models.DailyStats{
		Day:                day,
		TotalPredictions:   stats.TotalPredictions,
		LowCount:           stats.LowCount,
		MediumCount:        stats.MediumCount,
		HighCount:          stats.HighCount,
		AlertCount:         stats.AlertCount,
		AvgProbability:     stats.AvgProbability,
		RequestedAmountUSD: stats.RequestedAmountUSD,
	})
}
