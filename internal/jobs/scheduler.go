// Package jobs runs the CMMS background checks on cron schedules.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrUnknownJob is returned when running a job that was never registered.
var ErrUnknownJob = errors.New("unknown job")

// JobFunc is the body of a scheduled job.
type JobFunc func(ctx context.Context) error

// Job is a point-in-time view of a registered job.
type Job struct {
	Name         string     `json:"name"`
	Schedule     string     `json:"schedule"`
	Running      bool       `json:"running"`
	LastRun      *time.Time `json:"lastRun,omitempty"`
	LastDuration string     `json:"lastDuration,omitempty"`
	LastError    string     `json:"lastError,omitempty"`
}

type entry struct {
	job Job
	fn  JobFunc
	id  cron.EntryID
}

// Scheduler owns a cron instance and the jobs registered on it.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.RWMutex
	entries map[string]*entry
}

// NewScheduler expects six-field cron expressions (seconds first). Each run
// is cancelled after timeout; a non-positive value means 30 minutes.
func NewScheduler(timeout time.Duration, logger *slog.Logger) *Scheduler {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		timeout: timeout,
		logger:  logger.With("component", "scheduler"),
		entries: make(map[string]*entry),
	}
}

// Register schedules fn under a unique name.
func (s *Scheduler) Register(name, schedule string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.entries[name]; dup {
		return fmt.Errorf("job %q already registered", name)
	}

	e := &entry{job: Job{Name: name, Schedule: schedule}, fn: fn}
	id, err := s.cron.AddFunc(schedule, func() {
		_ = s.execute(context.Background(), e)
	})
	if err != nil {
		return fmt.Errorf("job %q: invalid schedule %q: %w", name, schedule, err)
	}
	e.id = id
	s.entries[name] = e

	s.logger.Debug("job registered", "name", name, "schedule", schedule)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.entries))
}

// Stop halts the cron loop and blocks until in-flight runs return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// Run executes the named job on the caller's goroutine.
func (s *Scheduler) Run(ctx context.Context, name string) error {
	e, err := s.find(name)
	if err != nil {
		return err
	}
	return s.execute(ctx, e)
}

// RunNow triggers the named job without waiting for it.
func (s *Scheduler) RunNow(name string) error {
	e, err := s.find(name)
	if err != nil {
		return err
	}
	go s.execute(context.Background(), e) //nolint:errcheck
	return nil
}

// ListJobs returns snapshots of every job, ordered by name.
func (s *Scheduler) ListJobs() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Job, 0, len(s.entries))
	for _, e := range s.entries {
		j := e.job
		out = append(out, &j)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

func (s *Scheduler) find(name string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.entries[name]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownJob, name)
}

func (s *Scheduler) execute(ctx context.Context, e *entry) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	s.mu.Lock()
	e.job.Running = true
	s.mu.Unlock()

	err := e.fn(ctx)
	took := time.Since(started)

	s.mu.Lock()
	e.job.Running = false
	e.job.LastRun = &started
	e.job.LastDuration = took.String()
	e.job.LastError = ""
	if err != nil {
		e.job.LastError = err.Error()
	}
	s.mu.Unlock()

	log := s.logger.With("name", e.job.Name, "duration", took)
	if err != nil {
		log.Error("job failed", "error", err)
		return err
	}
	log.Info("job completed")
	return nil
}
