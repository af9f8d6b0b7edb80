package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hayatfoundation/site/internal/config"
	"github.com/hayatfoundation/site/internal/database/users"
	"github.com/hayatfoundation/site/internal/entities"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAuthRequired       = errors.New("authentication required")
	ErrInvalidRole        = errors.New("invalid role")
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("invalid email format")
	ErrPasswordRequired   = errors.New("password is required")
	ErrAccountLocked      = errors.New("account is locked due to too many failed login attempts")
	ErrSetupComplete      = errors.New("an account already exists")
)

// Service handles CMS account authentication and management.
type Service struct {
	users  *users.Repository
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(repo *users.Repository, cfg config.Auth) *Service {
	return &Service{
		users:  repo,
		config: cfg,
	}
}

// CreateUser creates a new account with password authentication.
func (s *Service) CreateUser(ctx context.Context, email, name, password string, role entities.UserRole) (*entities.User, error) {
	email = users.NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	// RFC 5321 limit is 254
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email || len(email) > 254 {
		return nil, ErrEmailInvalid
	}

	switch role {
	case entities.UserRoleAdmin, entities.UserRoleEditor:
	default:
		return nil, ErrInvalidRole
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, users.ErrExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate validates credentials and returns the user. Accounts are
// locked for LockoutDuration after MaxLoginAttempts consecutive failures.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entities.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.LockedUntil != nil {
		if time.Now().Before(*user.LockedUntil) {
			return nil, ErrAccountLocked
		}
		// Expired lockout starts a fresh count.
		user.FailedLoginCount = 0
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		s.recordFailedLogin(ctx, user)
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now()
	if err := s.users.RecordLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLoginAt = &now
	user.FailedLoginCount = 0
	user.LockedUntil = nil

	return user, nil
}

func (s *Service) recordFailedLogin(ctx context.Context, user *entities.User) {
	user.FailedLoginCount++

	maxAttempts := s.config.MaxLoginAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}

	var lockedUntil *time.Time
	if user.FailedLoginCount >= maxAttempts {
		lockout := s.config.LockoutDuration
		if lockout <= 0 {
			lockout = 30 * time.Minute
		}
		until := time.Now().Add(lockout)
		lockedUntil = &until
	}

	if err := s.users.RecordFailedLogin(ctx, user.ID, user.FailedLoginCount, lockedUntil); err != nil {
		log.Error().Err(err).Uint("user_id", user.ID).Int("failed_logins", user.FailedLoginCount).Msg("Failed to record failed login")
	}
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword updates a user's password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := CheckPassword(oldPassword, user.PasswordHash); err != nil {
		return err
	}

	newHash, err := HashPassword(newPassword, s.config.BcryptCost)
	if err != nil {
		return err
	}

	return s.users.UpdatePasswordHash(ctx, userID, newHash)
}

// HasUsers reports whether any CMS account exists.
func (s *Service) HasUsers(ctx context.Context) (bool, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
