package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hayatfoundation/site/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func TestRepository_LogEvent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	event := &entities.AuditEvent{
		Actor:       "editor@example.org",
		ActorSource: "session",
		Action:      entities.AuditActionCreate,
		EntityType:  "news",
		EntityIDs:   "1",
		Description: "Created news 1",
		Status:      entities.AuditStatusSuccess,
	}

	err := repo.LogEvent(context.Background(), event)
	require.NoError(t, err)
	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestRepository_GetEvents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		event := &entities.AuditEvent{
			Actor:      "editor@example.org",
			Action:     entities.AuditActionUpdate,
			EntityType: "news",
			Status:     entities.AuditStatusSuccess,
			CreatedAt:  time.Now().Add(time.Duration(-i) * time.Hour),
		}
		require.NoError(t, repo.LogEvent(ctx, event))
	}

	for i := 0; i < 5; i++ {
		event := &entities.AuditEvent{
			Actor:      "admin@example.org",
			Action:     entities.AuditActionDelete,
			EntityType: "programs",
			Status:     entities.AuditStatusSuccess,
		}
		require.NoError(t, repo.LogEvent(ctx, event))
	}

	t.Run("get all events", func(t *testing.T) {
		events, total, err := repo.GetEvents(ctx, Query{})
		require.NoError(t, err)
		assert.Equal(t, int64(20), total)
		assert.Len(t, events, 20)
	})

	t.Run("filter by actor", func(t *testing.T) {
		events, total, err := repo.GetEvents(ctx, Query{Actor: "editor@example.org"})
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, events, 15)
	})

	t.Run("filter by entity and action", func(t *testing.T) {
		events, total, err := repo.GetEvents(ctx, Query{EntityType: "programs", Action: entities.AuditActionDelete})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		for _, e := range events {
			assert.Equal(t, "programs", e.EntityType)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		events, total, err := repo.GetEvents(ctx, Query{Actor: "editor@example.org", Limit: 5})
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, events, 5)

		events2, _, err := repo.GetEvents(ctx, Query{Actor: "editor@example.org", Limit: 5, Offset: 5})
		require.NoError(t, err)
		assert.Len(t, events2, 5)
		assert.NotEqual(t, events[0].ID, events2[0].ID)
	})

	t.Run("order by created_at desc", func(t *testing.T) {
		events, _, err := repo.GetEvents(ctx, Query{Actor: "editor@example.org", Limit: 10})
		require.NoError(t, err)
		for i := 1; i < len(events); i++ {
			assert.False(t, events[i-1].CreatedAt.Before(events[i].CreatedAt))
		}
	})
}

func TestRepository_DeleteOldEvents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now()

	oldEvent := &entities.AuditEvent{
		Actor:     "a@example.org",
		Action:    entities.AuditActionCreate,
		Status:    entities.AuditStatusSuccess,
		CreatedAt: now.Add(-48 * time.Hour),
	}
	newEvent := &entities.AuditEvent{
		Actor:       "a@example.org",
		Action:      entities.AuditActionDelete,
		Description: "new_delete",
		Status:      entities.AuditStatusSuccess,
		CreatedAt:   now.Add(-1 * time.Hour),
	}

	require.NoError(t, repo.LogEvent(ctx, oldEvent))
	require.NoError(t, repo.LogEvent(ctx, newEvent))

	deleted, err := repo.DeleteOldEvents(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, total, err := repo.GetEvents(ctx, Query{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, events, 1)
	assert.Equal(t, "new_delete", events[0].Description)
}

func TestRepository_GetEventByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	event := &entities.AuditEvent{
		Actor:      "a@example.org",
		Action:     entities.AuditActionUpload,
		EntityType: "images",
		Status:     entities.AuditStatusSuccess,
	}
	require.NoError(t, repo.LogEvent(ctx, event))

	t.Run("existing event", func(t *testing.T) {
		found, err := repo.GetEventByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, event.ID, found.ID)
		assert.Equal(t, entities.AuditActionUpload, found.Action)
	})

	t.Run("non-existing event", func(t *testing.T) {
		_, err := repo.GetEventByID(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
