package audit

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/hayatfoundation/site/internal/entities"
)

var ErrNotFound = errors.New("audit event not found")

// Query narrows GetEvents. Zero values match everything.
type Query struct {
	Actor      string
	EntityType string
	Action     entities.AuditAction
	Limit      int
	Offset     int
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(ctx context.Context, event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// GetEvents retrieves paginated audit events, ordered by most recent first.
func (r *Repository) GetEvents(ctx context.Context, q Query) ([]entities.AuditEvent, int64, error) {
	var events []entities.AuditEvent
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.AuditEvent{})
	if q.Actor != "" {
		query = query.Where("actor = ?", q.Actor)
	}
	if q.EntityType != "" {
		query = query.Where("entity_type = ?", q.EntityType)
	}
	if q.Action != "" {
		query = query.Where("action = ?", q.Action)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := q.Limit, q.Offset
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// DeleteOldEvents removes audit events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", olderThan).Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}

// GetEventByID retrieves a single audit event by ID.
func (r *Repository) GetEventByID(ctx context.Context, id uint) (*entities.AuditEvent, error) {
	var event entities.AuditEvent
	err := r.db.WithContext(ctx).First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}
