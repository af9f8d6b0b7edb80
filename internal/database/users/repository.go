// Package users provides database operations for CMS accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetByEmail(ctx, "editor@example.org")
package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hayatfoundation/site/internal/entities"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrExists   = errors.New("user already exists")
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts user, rejecting a duplicate email with ErrExists.
func (r *Repository) Create(ctx context.Context, user *entities.User) error {
	user.Email = NormalizeEmail(user.Email)

	_, err := r.GetByEmail(ctx, user.Email)
	if err == nil {
		return ErrExists
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email address.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// Count returns the number of CMS accounts.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).Count(&count).Error
	return count, err
}

// RecordLogin stamps a successful login and clears any lockout.
func (r *Repository) RecordLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Updates(map[string]any{
		"last_login_at":      at,
		"failed_login_count": 0,
		"locked_until":       nil,
	}).Error
}

// RecordFailedLogin stores the failed attempt count and, when lockedUntil is
// set, locks the account until then.
func (r *Repository) RecordFailedLogin(ctx context.Context, id uint, count int, lockedUntil *time.Time) error {
	updates := map[string]any{
		"failed_login_count": count,
	}
	if lockedUntil != nil {
		updates["locked_until"] = *lockedUntil
	}
	return r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Updates(updates).Error
}

// UpdatePasswordHash replaces the stored password hash.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	result := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
