// Package donations provides the donation-specific queries that the generic
// content repository does not cover: bank account checks, checkout stamping
// and expiry of abandoned online payments.
package donations

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/hayatfoundation/site/internal/entities"
)

var ErrNotFound = errors.New("donation not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new donation.
func (r *Repository) Create(ctx context.Context, d *entities.Donation) error {
	return r.db.WithContext(ctx).Create(d).Error
}

// Delete removes a donation. Used to undo a donation whose checkout could not
// be started.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.Donation{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// BankAccountExists reports whether a published bank account with id exists.
func (r *Repository) BankAccountExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.BankAccount{}).
		Where("id = ? AND is_published = ?", id, true).
		Count(&count).Error
	return count > 0, err
}

// SetCheckout stores the gateway reference and hosted checkout URL.
func (r *Repository) SetCheckout(ctx context.Context, id uint, reference, checkoutURL string) error {
	result := r.db.WithContext(ctx).Model(&entities.Donation{}).Where("id = ?", id).Updates(map[string]any{
		"payment_reference": reference,
		"checkout_url":      checkoutURL,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ExpireStale marks pending online donations created before olderThan as
// expired and returns how many changed. Offline methods stay pending until a
// CMS user reviews the attachment.
func (r *Repository) ExpireStale(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("status = ? AND method = ? AND created_at < ?",
			entities.DonationStatusPending, entities.DonationMethodStripe, olderThan).
		Updates(map[string]any{
			"status":     entities.DonationStatusExpired,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
