// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/bookscan/internal/logging"
)

// TriggerSchedule marks enrichment runs started by the scheduler.
const TriggerSchedule = "schedule"

// Enqueuer starts a bulk enrichment. *tasks.Client implements it.
type Enqueuer interface {
	EnqueueEnrichAll(ctx context.Context, trigger string) (string, error)
}

// EnqueuerFunc adapts a function to Enqueuer.
type EnqueuerFunc func(ctx context.Context, trigger string) (string, error)

func (f EnqueuerFunc) EnqueueEnrichAll(ctx context.Context, trigger string) (string, error) {
	return f(ctx, trigger)
}

// EnrichmentScheduler periodically enqueues enrichment of books missing
// metadata.
type EnrichmentScheduler struct {
	enqueuer Enqueuer
	schedule string
	log      *zap.Logger

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

// NewEnrichmentScheduler creates a scheduler for the given cron schedule.
// The schedule is validated by Start.
func NewEnrichmentScheduler(enqueuer Enqueuer, schedule string, log *zap.Logger) *EnrichmentScheduler {
	return &EnrichmentScheduler{
		enqueuer: enqueuer,
		schedule: schedule,
		log:      logging.OrNop(log).Named("scheduler"),
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start registers the job and starts the cron loop. The scheduler stops
// when ctx is cancelled.
func (s *EnrichmentScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.RunNow(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule enrichment job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	next, _ := NextRun(s.schedule, time.Now())
	s.log.Info("enrichment scheduler started",
		zap.String("schedule", s.schedule),
		zap.String("description", Describe(s.schedule)),
		zap.Time("next_run", next))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the cron loop and waits for a running job to return.
func (s *EnrichmentScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.isRunning = false

	s.log.Info("enrichment scheduler stopped")
}

// RunNow enqueues an enrichment run immediately.
func (s *EnrichmentScheduler) RunNow(ctx context.Context) {
	id, err := s.enqueuer.EnqueueEnrichAll(ctx, TriggerSchedule)
	if err != nil {
		s.log.Error("failed to enqueue scheduled enrichment", zap.Error(err))
		return
	}
	s.log.Info("scheduled enrichment enqueued", zap.String("task_id", id))
}

// IsRunning returns whether the scheduler is active.
func (s *EnrichmentScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the job fires next, or nil when stopped.
func (s *EnrichmentScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	next, err := NextRun(s.schedule, time.Now())
	if err != nil {
		return nil
	}
	return &next
}
