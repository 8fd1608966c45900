package util

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter paces watch-mode regenerations: one regeneration per 1/perSecond
// interval, no burst. A non-positive rate disables pacing.
type Limiter struct {
	inner *rate.Limiter
}

func NewLimiter(perSecond float64) *Limiter {
	return &Limiter{inner: rate.NewLimiter(limitFor(perSecond), 1)}
}

// SetRate changes the pace for subsequent waits, keeping the current bucket.
func (l *Limiter) SetRate(perSecond float64) {
	l.inner.SetLimit(limitFor(perSecond))
}

// Wait blocks until the next regeneration may start or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.inner.Wait(ctx)
}

func limitFor(perSecond float64) rate.Limit {
	if perSecond <= 0 {
		return rate.Inf
	}
	return rate.Limit(perSecond)
}
