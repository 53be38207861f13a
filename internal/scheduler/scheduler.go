package scheduler

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"vehicle-rental-admin/internal/logger"
)

// Job is one scheduled unit of work. ctx is cancelled when the scheduler stops.
type Job func(ctx context.Context)

// Scheduler runs interval jobs. A tick that finds its previous run still in
// progress is skipped, and a panicking job is logged and recovered.
type Scheduler struct {
	cron   *cron.Cron
	jitter time.Duration

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler. Each tick first waits a random duration
// in [0, jitter).
func NewScheduler(jitter time.Duration) *Scheduler {
	cronLogger := logger.Cron()
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithLogger(cronLogger),
		// Recover sits inside the skip guard so a panicking run still
		// releases its slot for the next tick.
		cron.WithChain(cron.SkipIfStillRunning(cronLogger), cron.Recover(cronLogger)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   c,
		jitter: max(jitter, 0),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Every schedules fn to run once per period, starting one period from now.
func (s *Scheduler) Every(name string, period time.Duration, fn Job) (cron.EntryID, error) {
	if period < time.Second {
		return 0, fmt.Errorf("schedule %s: period %s is below one second", name, period)
	}
	id, err := s.cron.AddFunc("@every "+period.String(), func() {
		s.run(name, fn)
	})
	if err != nil {
		logger.Error("Failed to register job", "job", name, "error", err)
		return 0, fmt.Errorf("schedule %s: %w", name, err)
	}
	logger.Debug("Job registered", "job", name, "period", period)
	return id, nil
}

// Remove unschedules a job. A run already in progress finishes.
func (s *Scheduler) Remove(id cron.EntryID) {
	s.cron.Remove(id)
}

// Len returns the number of scheduled jobs.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) run(name string, fn Job) {
	ctx := s.context()
	if s.jitter > 0 {
		wait := time.Duration(rand.Int64N(int64(s.jitter)))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return
		}
	}
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	logger.Debug("Starting job", "job", name)
	fn(ctx)
	logger.Debug("Job completed", "job", name, "duration", time.Since(start))
}

func (s *Scheduler) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.ctx, s.cancel = context.WithCancel(context.Background())
	}
	s.mu.Unlock()
	s.cron.Start()
	logger.Debug("Scheduler started", "jobs", s.Len())
}

// Stop cancels pending ticks and waits for running jobs to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()
	<-s.cron.Stop().Done()
	logger.Debug("Scheduler stopped")
}
