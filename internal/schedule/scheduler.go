/*-------------------------------------------------------------------------
 *
 * scheduler.go
 *    Periodic run-all sweep scheduler
 *
 * Runs every active flow on a cron schedule with a wall-clock budget so
 * a slow site cannot make sweeps pile up on each other.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronFlow/internal/schedule/scheduler.go
 *
 *-------------------------------------------------------------------------
 */

package schedule

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/neurondb/NeuronFlow/internal/config"
	"github.com/neurondb/NeuronFlow/internal/flow"
	"github.com/neurondb/NeuronFlow/internal/metrics"
)

/* Scheduler triggers run-all sweeps on a cron schedule */
type Scheduler struct {
	cron    *cron.Cron
	engine  *flow.Engine
	cfg     config.SchedulerConfig
	running atomic.Bool
}

/* NewScheduler creates a sweep scheduler */
func NewScheduler(engine *flow.Engine, cfg config.SchedulerConfig) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		engine: engine,
		cfg:    cfg,
	}
}

/* Start registers the sweep job and starts the cron loop */
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.CronSpec, func() {
		s.sweep(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	metrics.InfoWithContext(ctx, "Scheduler started", map[string]interface{}{
		"cron_spec":      s.cfg.CronSpec,
		"budget_seconds": s.cfg.BudgetSeconds,
	})
	return nil
}

/* Stop stops the cron loop and waits for a running sweep to finish */
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

/* sweep runs all flows once; overlapping triggers are skipped */
func (s *Scheduler) sweep(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		metrics.WarnWithContext(ctx, "Previous sweep still running, skipping", nil)
		metrics.RecordScheduledSweep("skipped")
		return
	}
	defer s.running.Store(false)

	budget := time.Duration(s.cfg.BudgetSeconds) * time.Second
	summaries, err := s.engine.ExecuteAll(ctx, budget)
	if err != nil {
		metrics.ErrorWithContext(ctx, "Scheduled sweep failed", err, nil)
		metrics.RecordScheduledSweep("failed")
		return
	}

	failed := 0
	for _, summary := range summaries {
		if summary.Status != flow.StatusPassed {
			failed++
		}
	}
	metrics.InfoWithContext(ctx, "Scheduled sweep complete", map[string]interface{}{
		"flows":  len(summaries),
		"failed": failed,
	})
	metrics.RecordScheduledSweep("completed")
}
