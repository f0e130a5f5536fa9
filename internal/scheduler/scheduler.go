package scheduler

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/intlakaa/internal/logging"
	"github.com/robfig/cron/v3"
)

// Job is a named unit of background work run on a cron schedule.
type Job struct {
	Name     string
	Schedule string
	Timeout  time.Duration
	Run      func(ctx context.Context) error
}

type entry struct {
	id      cron.EntryID
	job     Job
	running atomic.Bool
}

// Scheduler manages background job scheduling and execution
type Scheduler struct {
	cron    *cron.Cron
	logger  *logging.Logger
	entries map[string]*entry
	mu      sync.RWMutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewScheduler(logger *logging.Logger, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		logger:  logger,
		entries: make(map[string]*entry),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron.Start()
	s.running = true

	s.logger.Infow("scheduler started", "jobs", len(s.entries))
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.running = false
	s.logger.Info("scheduler stopped")
}

// AddJob schedules job, replacing any job with the same name.
func (s *Scheduler) AddJob(job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("job needs a name and a run function")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[job.Name]; ok {
		s.cron.Remove(old.id)
		delete(s.entries, job.Name)
	}

	e := &entry{job: job}
	id, err := s.cron.AddFunc(normalizeSchedule(job.Schedule), func() { s.run(e) })
	if err != nil {
		return fmt.Errorf("invalid cron expression '%s': %w", job.Schedule, err)
	}
	e.id = id
	s.entries[job.Name] = e
	return nil
}

// RemoveJob removes a job from the scheduler
func (s *Scheduler) RemoveJob(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[name]; ok {
		s.cron.Remove(e.id)
		delete(s.entries, name)
	}
}

// Trigger runs a job immediately in the caller's goroutine.
func (s *Scheduler) Trigger(name string) error {
	s.mu.RLock()
	e, ok := s.entries[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %q not found", name)
	}
	return s.run(e)
}

// NextRun returns the next run time for a job
func (s *Scheduler) NextRun(name string) *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.entries[name]; ok {
		next := s.cron.Entry(e.id).Next
		if !next.IsZero() {
			return &next
		}
	}
	return nil
}

// Jobs returns the names of all scheduled jobs, sorted.
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *Scheduler) run(e *entry) error {
	if !e.running.CompareAndSwap(false, true) {
		s.logger.Infow("job is already running, skipping", "job", e.job.Name)
		return nil
	}
	defer e.running.Store(false)

	s.mu.RLock()
	parent := s.ctx
	s.mu.RUnlock()

	timeout := e.job.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	start := time.Now()
	if err := e.job.Run(ctx); err != nil {
		s.logger.Errorw("job failed", "job", e.job.Name, "error", err, "duration", time.Since(start).String())
		return err
	}
	s.logger.Debugw("job finished", "job", e.job.Name, "duration", time.Since(start).String())
	return nil
}

// normalizeSchedule turns shortcuts and 5-field expressions into the
// 6-field form the seconds-aware parser expects.
func normalizeSchedule(schedule string) string {
	schedule = strings.TrimSpace(schedule)
	switch schedule {
	case "@hourly":
		return "0 0 * * * *"
	case "@daily":
		return "0 0 0 * * *"
	case "@weekly":
		return "0 0 0 * * 0"
	case "@monthly":
		return "0 0 0 1 * *"
	}
	if len(strings.Fields(schedule)) == 5 {
		return "0 " + schedule
	}
	return schedule
}
