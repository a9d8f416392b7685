package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"github.com/brandlens/brandlens/internal/db"
	"github.com/brandlens/brandlens/internal/logger"
	"github.com/brandlens/brandlens/internal/orchestrator"
)

// workspacePacing spaces out consecutive workspace runs so the daily batch
// does not burst every vendor at once
const workspacePacing = 5 * time.Second

// Scheduler fans the daily measurement batch out across all active
// workspaces on a cron schedule
type Scheduler struct {
	sqlDB    db.SQLDatabase
	orch     *orchestrator.Orchestrator
	cronExpr string
	cron     *cron.Cron
	limiter  *rate.Limiter
	running  bool
	mu       sync.Mutex
}

// New creates a scheduler. cronExpr is a standard 5-field cron expression.
func New(sqlDB db.SQLDatabase, orch *orchestrator.Orchestrator, cronExpr string) *Scheduler {
	return &Scheduler{
		sqlDB:    sqlDB,
		orch:     orch,
		cronExpr: cronExpr,
		cron:     cron.New(),
		limiter:  rate.NewLimiter(rate.Every(workspacePacing), 1),
	}
}

// Start registers the daily job and starts the cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	_, err := s.cron.AddFunc(s.cronExpr, func() {
		if err := s.RunAll(context.Background()); err != nil {
			logger.Error("Daily measurement batch failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	s.running = true

	logger.Info("Scheduler started with cron expression: %s", s.cronExpr)
	return nil
}

// Stop stops the cron loop
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cron.Stop()
	s.running = false

	logger.Info("Scheduler stopped")
}

// RunAll executes one measurement batch per active workspace, paced so
// vendors are not hit in a burst. A single workspace's total failure is
// recorded and the loop proceeds to the next workspace.
func (s *Scheduler) RunAll(ctx context.Context) error {
	workspaces, err := s.sqlDB.ListWorkspaces(ctx, boolPtr(true))
	if err != nil {
		return fmt.Errorf("failed to list workspaces: %w", err)
	}

	logger.Info("Starting daily measurement batch for %d workspaces", len(workspaces))

	failed := 0
	for _, workspace := range workspaces {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		summary, err := s.orch.Run(ctx, orchestrator.RunOptions{WorkspaceID: workspace.ID}, nil)
		if err != nil {
			failed++
			logger.Error("Measurement run failed for workspace %s: %v", workspace.ID, err)
			continue
		}

		logger.Info("Workspace %s: processed=%d skipped=%d errors=%d",
			workspace.ID, summary.Processed, summary.Skipped, summary.Errors)
	}

	logger.Info("Daily measurement batch complete: %d workspaces, %d failed", len(workspaces), failed)
	return nil
}

func boolPtr(b bool) *bool {
	return &b
}
