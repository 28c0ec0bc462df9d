// Package scheduler keeps the dashboard aggregates fresh on a cron
// schedule so the UI reads precomputed figures instead of re-settling
// the whole history per request.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/geovana49/apostaspro-v2-sub001/internal/repository"
	"github.com/geovana49/apostaspro-v2-sub001/internal/stats"
)

// DashboardSnapshot is the precomputed aggregate set served to the UI.
type DashboardSnapshot struct {
	GeneratedAt  time.Time                   `json:"generated_at"`
	CurrentMonth stats.PeriodSummary         `json:"current_month"`
	CurrentYear  stats.PeriodSummary         `json:"current_year"`
	Bookmakers   []stats.BookmakerAttribution `json:"bookmakers"`
	BestMonths   []stats.MonthProfit         `json:"best_months"`
}

// Scheduler recomputes the dashboard snapshot on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	stores  repository.Stores
	logger  *logrus.Logger
	timeout time.Duration

	mu        sync.RWMutex
	isRunning bool
	snapshot  *DashboardSnapshot
}

// New creates a scheduler over the given stores.
func New(stores repository.Stores, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.Local)),
		stores:  stores,
		logger:  logger,
		timeout: 2 * time.Minute,
	}
}

// Schedule registers the refresh job. Must be called before Start.
func (s *Scheduler) Schedule(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	_, err := s.cron.AddFunc(cronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.Refresh(ctx); err != nil {
			s.logger.WithError(err).Error("Dashboard refresh failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}
	return nil
}

// Start begins scheduled refreshes and computes an initial snapshot.
func (s *Scheduler) Start(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.isRunning = true
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("Dashboard scheduler started")
	return nil
}

// Stop halts scheduled refreshes, waiting for a running job.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()

	s.mu.Lock()
	s.isRunning = false
	s.mu.Unlock()

	s.logger.Info("Dashboard scheduler stopped")
}

// Refresh recomputes the snapshot from the stores.
func (s *Scheduler) Refresh(ctx context.Context) error {
	bets, err := s.stores.Bets.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load bets: %w", err)
	}
	gains, err := s.stores.Gains.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load gains: %w", err)
	}

	now := time.Now()
	snapshot := &DashboardSnapshot{
		GeneratedAt:  now,
		CurrentMonth: stats.Summarize(bets, gains, stats.MonthWindow(now.Year(), now.Month())),
		CurrentYear:  stats.Summarize(bets, gains, stats.YearWindow(now.Year())),
		Bookmakers:   stats.RankBookmakers(bets),
		BestMonths:   stats.RankMonths(bets),
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	RefreshesTotal.Inc()
	settled := 0
	for _, bet := range bets {
		if bet.IsSettled() {
			settled++
		}
	}
	SettledBets.Set(float64(settled))

	s.logger.WithFields(logrus.Fields{
		"bets":   len(bets),
		"gains":  len(gains),
		"profit": snapshot.CurrentMonth.Profit,
	}).Debug("Dashboard snapshot refreshed")
	return nil
}

// Snapshot returns the latest snapshot, nil before the first refresh.
func (s *Scheduler) Snapshot() *DashboardSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}
