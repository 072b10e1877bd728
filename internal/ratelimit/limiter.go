package ratelimit

import (
	"context"
	"errors"
	"time"
)

var ErrLimited = errors.New("rate limit exceeded")

// Store counts hits per key in fixed windows.
type Store interface {
	// Hit records one request and returns the count within the key's current window.
	Hit(ctx context.Context, key string, window time.Duration) (int, error)
}

// Limiter is a fixed-window counter per (client, endpoint). Up to twice the
// limit can pass around a window boundary.
type Limiter struct {
	store  Store
	max    int
	window time.Duration
}

func New(store Store, max int, window time.Duration) *Limiter {
	if max <= 0 {
		max = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{store: store, max: max, window: window}
}

func (l *Limiter) Check(ctx context.Context, clientID string, endpoint string) error {
	count, err := l.store.Hit(ctx, clientID+"|"+endpoint, l.window)
	if err != nil {
		return err
	}
	if count > l.max {
		return ErrLimited
	}
	return nil
}

func (l *Limiter) Window() time.Duration {
	return l.window
}
