package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
)

// DefaultStaleDonationAge is how long an online donation may stay pending.
const DefaultStaleDonationAge = 72 * time.Hour

// DonationExpirer marks abandoned online donations as expired.
type DonationExpirer interface {
	ExpireStale(ctx context.Context, olderThan time.Time) (int64, error)
}

// ExpireStaleDonationsTask expires pending card donations whose checkout was
// never completed.
type ExpireStaleDonationsTask struct {
	MaxAgeSeconds int64 `json:"max_age_seconds"`
}

func (t ExpireStaleDonationsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "expire_stale_donations",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func ExpireStaleDonationsProcessor(expirer DonationExpirer) backlite.QueueProcessor[ExpireStaleDonationsTask] {
	return func(ctx context.Context, task ExpireStaleDonationsTask) error {
		if expirer == nil {
			return fmt.Errorf("donation expirer not configured")
		}

		maxAge := time.Duration(task.MaxAgeSeconds) * time.Second
		if maxAge <= 0 {
			maxAge = DefaultStaleDonationAge
		}

		n, err := expirer.ExpireStale(ctx, time.Now().Add(-maxAge))
		if err != nil {
			return fmt.Errorf("expire stale donations: %w", err)
		}
		if n > 0 {
			log.Info().Int64("expired", n).Dur("max_age", maxAge).Msg("expired stale donations")
		}
		return nil
	}
}

func NewExpireStaleDonationsQueue(expirer DonationExpirer) backlite.Queue {
	return backlite.NewQueue(ExpireStaleDonationsProcessor(expirer))
}
