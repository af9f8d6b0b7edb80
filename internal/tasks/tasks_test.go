package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayatfoundation/site/internal/media"
)

type fakeCleaner struct {
	retention time.Duration
	err       error
}

func (f *fakeCleaner) DeleteOldEvents(_ context.Context, retention time.Duration) (int64, error) {
	f.retention = retention
	return 7, f.err
}

type fakeExpirer struct {
	cutoff time.Time
}

func (f *fakeExpirer) ExpireStale(_ context.Context, olderThan time.Time) (int64, error) {
	f.cutoff = olderThan
	return 2, nil
}

type fakeGenerator struct {
	key string
	err error
}

func (f *fakeGenerator) Generate(_ context.Context, key string) (*media.Result, error) {
	f.key = key
	if f.err != nil {
		return nil, f.err
	}
	return &media.Result{ThumbnailKey: "images/a_thumb.jpg", ThumbnailURL: "/uploads/images/a_thumb.jpg", Width: 1200, Height: 800}, nil
}

type fakeSetter struct {
	id            uint
	url           string
	width, height int
}

func (f *fakeSetter) SetThumbnail(_ context.Context, id uint, url string, width, height int) error {
	f.id, f.url, f.width, f.height = id, url, width, height
	return nil
}

func TestQueueConfigs(t *testing.T) {
	assert.Equal(t, "cleanup_audit_events", CleanupAuditEventsTask{}.Config().Name)
	assert.Equal(t, "expire_stale_donations", ExpireStaleDonationsTask{}.Config().Name)

	cfg := GenerateThumbnailTask{}.Config()
	assert.Equal(t, "generate_thumbnail", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.NotNil(t, cfg.Retention)
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	cleaner := &fakeCleaner{}
	process := CleanupAuditEventsProcessor(cleaner)

	require.NoError(t, process(context.Background(), CleanupAuditEventsTask{RetentionDays: 10}))
	assert.Equal(t, 10*24*time.Hour, cleaner.retention)

	require.NoError(t, process(context.Background(), CleanupAuditEventsTask{}))
	assert.Equal(t, 90*24*time.Hour, cleaner.retention, "non-positive retention falls back to default")

	cleaner.err = errors.New("db down")
	assert.Error(t, process(context.Background(), CleanupAuditEventsTask{}))

	assert.Error(t, CleanupAuditEventsProcessor(nil)(context.Background(), CleanupAuditEventsTask{}))
}

func TestExpireStaleDonationsProcessor(t *testing.T) {
	expirer := &fakeExpirer{}
	process := ExpireStaleDonationsProcessor(expirer)

	before := time.Now()
	require.NoError(t, process(context.Background(), ExpireStaleDonationsTask{MaxAgeSeconds: 3600}))
	assert.WithinDuration(t, before.Add(-time.Hour), expirer.cutoff, 5*time.Second)

	require.NoError(t, process(context.Background(), ExpireStaleDonationsTask{}))
	assert.WithinDuration(t, before.Add(-DefaultStaleDonationAge), expirer.cutoff, 5*time.Second)
}

func TestGenerateThumbnailProcessor(t *testing.T) {
	gen := &fakeGenerator{}
	setter := &fakeSetter{}
	process := GenerateThumbnailProcessor(gen, setter)

	require.NoError(t, process(context.Background(), GenerateThumbnailTask{ImageID: 4, Key: "images/a.jpg"}))
	assert.Equal(t, "images/a.jpg", gen.key)
	assert.Equal(t, uint(4), setter.id)
	assert.Equal(t, "/uploads/images/a_thumb.jpg", setter.url)
	assert.Equal(t, 1200, setter.width)
	assert.Equal(t, 800, setter.height)

	gen.err = errors.New("corrupt image")
	setter.id = 0
	assert.Error(t, process(context.Background(), GenerateThumbnailTask{ImageID: 5, Key: "images/b.jpg"}))
	assert.Zero(t, setter.id, "failed render must not touch the row")

	assert.Error(t, GenerateThumbnailProcessor(nil, nil)(context.Background(), GenerateThumbnailTask{}))
}
