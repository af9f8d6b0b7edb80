// Package scheduler runs the periodic maintenance jobs of the site: expiring
// abandoned card donations and pruning old audit events.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/hayatfoundation/site/internal/config"
	"github.com/hayatfoundation/site/internal/tasks"
)

// Enqueuer hands a task to the background queue.
type Enqueuer interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

// Job is one scheduled maintenance job.
type Job struct {
	Name     string
	Schedule string
	Task     backlite.Task
	// Run executes the job inline when no queue is configured.
	Run func(ctx context.Context) error
}

// JobStatus describes a registered job for the CMS.
type JobStatus struct {
	Name        string     `json:"name"`
	Schedule    string     `json:"schedule"`
	Description string     `json:"description"`
	NextRun     *time.Time `json:"nextRun,omitempty"`
	LastRun     *time.Time `json:"lastRun,omitempty"`
	LastError   string     `json:"lastError,omitempty"`
}

type entry struct {
	job     Job
	id      cron.EntryID
	lastRun *time.Time
	lastErr string
}

// Scheduler manages the cron entries for maintenance jobs.
type Scheduler struct {
	queue Enqueuer

	cron       *cron.Cron
	mu         sync.RWMutex
	entries    []*entry
	isRunning  bool
	cancelFunc context.CancelFunc
}

// New creates a scheduler. queue may be nil, in which case jobs run inline.
func New(queue Enqueuer) *Scheduler {
	return &Scheduler{
		queue: queue,
		cron:  cron.New(cron.WithParser(parser)),
	}
}

// Maintenance returns the standard jobs built from configuration.
func Maintenance(cfg config.Schedule, auditCfg config.Audit, expirer tasks.DonationExpirer, cleaner tasks.AuditEventCleaner) []Job {
	expire := tasks.ExpireStaleDonationsTask{MaxAgeSeconds: int64(cfg.StaleDonationMaxAge / time.Second)}
	cleanup := tasks.CleanupAuditEventsTask{RetentionDays: auditCfg.RetentionDays}

	expireRun := tasks.ExpireStaleDonationsProcessor(expirer)
	cleanupRun := tasks.CleanupAuditEventsProcessor(cleaner)

	var jobs []Job
	if cfg.DonationExpiry != "" {
		jobs = append(jobs, Job{
			Name:     "expire_stale_donations",
			Schedule: cfg.DonationExpiry,
			Task:     expire,
			Run:      func(ctx context.Context) error { return expireRun(ctx, expire) },
		})
	}
	if cfg.AuditCleanup != "" {
		jobs = append(jobs, Job{
			Name:     "cleanup_audit_events",
			Schedule: cfg.AuditCleanup,
			Task:     cleanup,
			Run:      func(ctx context.Context) error { return cleanupRun(ctx, cleanup) },
		})
	}
	return jobs
}

// Add registers a job. Must be called before Start.
func (s *Scheduler) Add(job Job) error {
	if err := ValidateCronSchedule(job.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s' for %s: %w", job.Schedule, job.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry{job: job}
	id, err := s.cron.AddFunc(job.Schedule, func() { s.execute(context.Background(), e) })
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", job.Name, err)
	}
	e.id = id
	s.entries = append(s.entries, e)
	return nil
}

// Start begins the cron loop; it stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)
	s.cron.Start()
	s.isRunning = true
	s.mu.Unlock()

	for _, st := range s.Status() {
		log.Info().
			Str("job", st.Name).
			Str("schedule", CronDescription(st.Schedule)).
			Interface("next_run", st.NextRun).
			Msg("scheduled maintenance job")
	}

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()
}

// Stop waits for running jobs and stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// RunNow triggers the named job immediately and waits for it (or for the
// enqueue when a queue is configured).
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.RLock()
	var found *entry
	for _, e := range s.entries {
		if e.job.Name == name {
			found = e
			break
		}
	}
	s.mu.RUnlock()

	if found == nil {
		return fmt.Errorf("unknown job: %s", name)
	}
	return s.execute(ctx, found)
}

// Status lists registered jobs with their next and last runs.
func (s *Scheduler) Status() []JobStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobStatus, 0, len(s.entries))
	for _, e := range s.entries {
		st := JobStatus{
			Name:        e.job.Name,
			Schedule:    e.job.Schedule,
			Description: CronDescription(e.job.Schedule),
			LastRun:     e.lastRun,
			LastError:   e.lastErr,
		}
		if s.isRunning {
			if next := s.cron.Entry(e.id).Next; !next.IsZero() {
				st.NextRun = &next
			}
		}
		out = append(out, st)
	}
	return out
}

func (s *Scheduler) execute(ctx context.Context, e *entry) error {
	var err error
	if s.queue != nil && e.job.Task != nil {
		_, err = s.queue.Add(e.job.Task).Save()
	} else if e.job.Run != nil {
		err = e.job.Run(ctx)
	}

	now := time.Now()
	s.mu.Lock()
	e.lastRun = &now
	e.lastErr = ""
	if err != nil {
		e.lastErr = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Str("job", e.job.Name).Msg("maintenance job failed")
	}
	return err
}
