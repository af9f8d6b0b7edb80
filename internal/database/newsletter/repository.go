// Package newsletter stores newsletter subscriptions. Subscribing is
// idempotent: an address is stored once and re-subscribing reactivates it.
package newsletter

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hayatfoundation/site/internal/entities"
)

var ErrNotFound = errors.New("newsletter member not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Subscribe stores member unless its email is already known. created reports
// whether a new row was inserted; for a known address the stored member is
// returned, reactivated if it had unsubscribed.
func (r *Repository) Subscribe(ctx context.Context, member *entities.NewsletterMember) (*entities.NewsletterMember, bool, error) {
	member.Email = strings.ToLower(strings.TrimSpace(member.Email))

	existing, err := r.GetByEmail(ctx, member.Email)
	switch {
	case err == nil:
		if existing.IsActive {
			return existing, false, nil
		}
		return r.reactivate(ctx, existing)
	case !errors.Is(err, ErrNotFound):
		return nil, false, err
	}

	member.IsActive = true
	member.SubscribedAt = time.Now()
	member.UnsubscribedAt = nil
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		// A concurrent request may have inserted the same address.
		if existing, getErr := r.GetByEmail(ctx, member.Email); getErr == nil {
			return existing, false, nil
		}
		return nil, false, err
	}
	return member, true, nil
}

func (r *Repository) reactivate(ctx context.Context, m *entities.NewsletterMember) (*entities.NewsletterMember, bool, error) {
	now := time.Now()
	err := r.db.WithContext(ctx).Model(m).Updates(map[string]any{
		"is_active":       true,
		"subscribed_at":   now,
		"unsubscribed_at": nil,
	}).Error
	if err != nil {
		return nil, false, err
	}
	m.IsActive = true
	m.SubscribedAt = now
	m.UnsubscribedAt = nil
	return m, false, nil
}

// Unsubscribe deactivates the member with the given email.
func (r *Repository) Unsubscribe(ctx context.Context, email string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entities.NewsletterMember{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Updates(map[string]any{"is_active": false, "unsubscribed_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*entities.NewsletterMember, error) {
	var m entities.NewsletterMember
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// CountActive returns the number of active subscriptions.
func (r *Repository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.NewsletterMember{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
