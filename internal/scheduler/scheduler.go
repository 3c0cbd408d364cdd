package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wonny/trendscan/pkg/logger"
)

// Job is a named, schedulable unit of work.
type Job interface {
	Name() string
	Schedule() string // cron spec with seconds field
	Run(ctx context.Context) error
}

// JobHistory tracks execution bookkeeping for one job.
type JobHistory struct {
	LastRun   time.Time
	LastError string
	RunCount  int
	FailCount int
}

// Scheduler manages recurring jobs.
// SSOT: schedule management happens in this scheduler only.
type Scheduler struct {
	cron    *cron.Cron
	logger  *logger.Logger
	jobs    map[string]Job
	history map[string]*JobHistory
	mu      sync.RWMutex
}

// New creates a new scheduler
func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		logger:  log,
		jobs:    make(map[string]Job),
		history: make(map[string]*JobHistory),
	}
}

// AddJob adds a job to the scheduler
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobName := job.Name()

	if _, exists := s.jobs[jobName]; exists {
		return fmt.Errorf("job %s already exists", jobName)
	}

	_, err := s.cron.AddFunc(job.Schedule(), func() {
		s.runJob(job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", jobName, err)
	}

	s.jobs[jobName] = job
	s.history[jobName] = &JobHistory{}

	s.logger.WithFields(map[string]interface{}{
		"job":      jobName,
		"schedule": job.Schedule(),
	}).Info("Job added to scheduler")

	return nil
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// History returns a copy of one job's execution bookkeeping.
func (s *Scheduler) History(jobName string) (JobHistory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.history[jobName]
	if !ok {
		return JobHistory{}, false
	}
	return *h, true
}

// runJob executes a job and records the outcome.
func (s *Scheduler) runJob(job Job) {
	jobName := job.Name()
	start := time.Now()

	s.logger.WithFields(map[string]interface{}{
		"job": jobName,
	}).Info("Job started")

	err := job.Run(context.Background())

	s.mu.Lock()
	h := s.history[jobName]
	h.LastRun = start
	h.RunCount++
	if err != nil {
		h.LastError = err.Error()
		h.FailCount++
	} else {
		h.LastError = ""
	}
	s.mu.Unlock()

	duration := time.Since(start)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"job":      jobName,
			"duration": duration,
			"error":    err.Error(),
		}).Error("Job failed")
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"job":      jobName,
		"duration": duration,
	}).Info("Job completed")
}
