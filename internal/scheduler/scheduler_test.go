package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayatfoundation/site/internal/config"
)

type countingExpirer struct {
	calls int
}

func (c *countingExpirer) ExpireStale(context.Context, time.Time) (int64, error) {
	c.calls++
	return 0, nil
}

type failingCleaner struct{}

func (failingCleaner) DeleteOldEvents(context.Context, time.Duration) (int64, error) {
	return 0, errors.New("locked")
}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 * * * *"))
	assert.NoError(t, ValidateCronSchedule("*/15 * * * *"))
	assert.Error(t, ValidateCronSchedule("every hour"))
	assert.Error(t, ValidateCronSchedule("0 0 * * * *"), "six fields are rejected")
}

func TestNextRunTime(t *testing.T) {
	from := time.Date(2024, 5, 1, 10, 15, 0, 0, time.UTC)
	next, err := NextRunTime("0 * * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC), next)
}

func TestCronDescription(t *testing.T) {
	assert.Equal(t, "Every hour at :00", CronDescription("0 * * * *"))
	assert.Equal(t, "Custom schedule: 5 4 * * *", CronDescription("5 4 * * *"))
}

func TestMaintenanceJobs(t *testing.T) {
	cfg := config.Schedule{DonationExpiry: "0 * * * *", AuditCleanup: "30 3 * * *", StaleDonationMaxAge: time.Hour}
	jobs := Maintenance(cfg, config.Audit{RetentionDays: 30}, &countingExpirer{}, failingCleaner{})
	require.Len(t, jobs, 2)
	assert.Equal(t, "expire_stale_donations", jobs[0].Name)
	assert.Equal(t, "cleanup_audit_events", jobs[1].Name)

	cfg.AuditCleanup = ""
	assert.Len(t, Maintenance(cfg, config.Audit{}, &countingExpirer{}, failingCleaner{}), 1)
}

func TestRunNowInline(t *testing.T) {
	expirer := &countingExpirer{}
	cfg := config.Schedule{DonationExpiry: "0 * * * *", AuditCleanup: "30 3 * * *"}

	s := New(nil)
	for _, job := range Maintenance(cfg, config.Audit{}, expirer, failingCleaner{}) {
		require.NoError(t, s.Add(job))
	}

	require.NoError(t, s.RunNow(context.Background(), "expire_stale_donations"))
	assert.Equal(t, 1, expirer.calls)

	assert.Error(t, s.RunNow(context.Background(), "cleanup_audit_events"))
	assert.Error(t, s.RunNow(context.Background(), "missing"))

	statuses := s.Status()
	require.Len(t, statuses, 2)
	assert.NotNil(t, statuses[0].LastRun)
	assert.Empty(t, statuses[0].LastError)
	assert.Equal(t, "locked", statuses[1].LastError[len(statuses[1].LastError)-6:])
}

func TestAddRejectsInvalidSchedule(t *testing.T) {
	s := New(nil)
	err := s.Add(Job{Name: "bad", Schedule: "nope"})
	assert.Error(t, err)
	assert.Empty(t, s.Status())
}

func TestStartStop(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Add(Job{Name: "noop", Schedule: "0 0 * * *", Run: func(context.Context) error { return nil }}))

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	assert.True(t, s.IsRunning())

	st := s.Status()
	require.Len(t, st, 1)
	assert.NotNil(t, st[0].NextRun)

	cancel()
	assert.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}
