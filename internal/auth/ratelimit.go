package auth

import (
	"strings"
	"sync"
	"time"
)

// RateLimiter throttles login attempts per IP+email using a fixed window.
type RateLimiter struct {
	mu              sync.RWMutex
	attempts        map[string]*attemptRecord
	maxAttempts     int
	windowDuration  time.Duration
	lockoutDuration time.Duration
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// RateLimitConfig contains configuration for the rate limiter.
type RateLimitConfig struct {
	MaxAttempts     int           // default: 5
	WindowDuration  time.Duration // default: 15m
	LockoutDuration time.Duration // default: 30m
	CleanupInterval time.Duration // default: 5m
}

// DefaultRateLimitConfig returns sensible defaults for rate limiting.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxAttempts:     5,
		WindowDuration:  15 * time.Minute,
		LockoutDuration: 30 * time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// NewRateLimiter creates a rate limiter and starts its cleanup goroutine.
// Call Stop to release it.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	def := DefaultRateLimitConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = def.WindowDuration
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = def.LockoutDuration
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = def.CleanupInterval
	}

	rl := &RateLimiter{
		attempts:        make(map[string]*attemptRecord),
		maxAttempts:     cfg.MaxAttempts,
		windowDuration:  cfg.WindowDuration,
		lockoutDuration: cfg.LockoutDuration,
		cleanupInterval: cfg.CleanupInterval,
		stopCleanup:     make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop stops the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

func (rl *RateLimiter) makeKey(ip, email string) string {
	return ip + "|" + strings.ToLower(strings.TrimSpace(email))
}

// Allow reports whether a login attempt may proceed and, if not, how long
// until the lockout expires.
func (rl *RateLimiter) Allow(ip, email string) (bool, time.Duration) {
	key := rl.makeKey(ip, email)
	now := time.Now()

	rl.mu.RLock()
	defer rl.mu.RUnlock()

	record, exists := rl.attempts[key]
	if !exists {
		return true, 0
	}

	if !record.lockedUntil.IsZero() && now.Before(record.lockedUntil) {
		return false, record.lockedUntil.Sub(now)
	}

	if now.Sub(record.firstAttempt) > rl.windowDuration {
		return true, 0
	}

	if record.count < rl.maxAttempts {
		return true, 0
	}

	return false, rl.lockoutDuration
}

// RecordFailure records a failed login attempt and reports whether the key
// is now locked.
func (rl *RateLimiter) RecordFailure(ip, email string) (bool, time.Duration) {
	key := rl.makeKey(ip, email)
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	record, exists := rl.attempts[key]
	if !exists {
		record = &attemptRecord{firstAttempt: now}
		rl.attempts[key] = record
	}

	if now.Sub(record.firstAttempt) > rl.windowDuration {
		record.count = 0
		record.firstAttempt = now
		record.lockedUntil = time.Time{}
	}

	record.count++

	if record.count >= rl.maxAttempts {
		record.lockedUntil = now.Add(rl.lockoutDuration)
		return true, rl.lockoutDuration
	}

	return false, 0
}

// RecordSuccess clears the failure record for a successful login.
func (rl *RateLimiter) RecordSuccess(ip, email string) {
	key := rl.makeKey(ip, email)

	rl.mu.Lock()
	delete(rl.attempts, key)
	rl.mu.Unlock()
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	now := time.Now()
	expiry := rl.windowDuration + rl.lockoutDuration

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, record := range rl.attempts {
		windowExpired := now.Sub(record.firstAttempt) > expiry
		lockoutExpired := record.lockedUntil.IsZero() || now.After(record.lockedUntil)

		if windowExpired && lockoutExpired {
			delete(rl.attempts, key)
		}
	}
}
