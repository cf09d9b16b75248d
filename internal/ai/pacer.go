package ai

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer is awaited before every AI action. *rate.Limiter satisfies it.
type Pacer interface {
	Wait(ctx context.Context) error
}

// NewPacer allows one action per delay. A non-positive delay disables
// pacing.
func NewPacer(delay time.Duration) Pacer {
	if delay <= 0 {
		return noPacer{}
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

type noPacer struct{}

func (noPacer) Wait(ctx context.Context) error {
	return ctx.Err()
}
