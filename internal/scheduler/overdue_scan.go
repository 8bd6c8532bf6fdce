package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/library/internal/tasks"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ScanRunner starts an overdue scan, either queued or inline.
type ScanRunner interface {
	RunOverdueScan(trigger string) (string, error)
}

// OverdueScanScheduler triggers overdue loan scans on a cron schedule.
type OverdueScanScheduler struct {
	runner   ScanRunner
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewOverdueScanScheduler creates a new scheduler instance
func NewOverdueScanScheduler(runner ScanRunner, schedule string) *OverdueScanScheduler {
	return &OverdueScanScheduler{
		runner:   runner,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// ValidateCronSchedule checks a standard five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// Start registers the scan job and starts the cron loop. The scheduler
// stops on its own when ctx is cancelled.
func (s *OverdueScanScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runScan(tasks.TriggerScheduled)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule overdue scan: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	next := s.cron.Entry(entryID).Next
	log.Info().Str("schedule", s.schedule).Time("next_run", next).Msg("Overdue scan scheduler started")

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *OverdueScanScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	log.Info().Msg("Overdue scan scheduler stopped")
}

// RunNow triggers an immediate scan outside the schedule.
func (s *OverdueScanScheduler) RunNow() (string, error) {
	return s.runner.RunOverdueScan(tasks.TriggerManual)
}

// IsRunning returns whether the scheduler is active
func (s *OverdueScanScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next scan will occur
func (s *OverdueScanScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() {
		return nil
	}
	t := entry.Next
	return &t
}

func (s *OverdueScanScheduler) runScan(trigger string) {
	taskID, err := s.runner.RunOverdueScan(trigger)
	if err != nil {
		log.Error().Err(err).Str("trigger", trigger).Msg("Overdue scan failed")
		return
	}
	if taskID != "" {
		log.Info().Str("task_id", taskID).Msg("Overdue scan enqueued")
	}
}
