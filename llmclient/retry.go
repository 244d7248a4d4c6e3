package llmclient

import (
	"context"
	"time"
)

// withRetry runs fn up to attempts times with bounded exponential backoff,
// matching spec.md §4.2/§5's "bounded exponential backoff" retry semantics.
// attempts=1 means no retry.
func withRetry(ctx context.Context, attempts int, base time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		wait := base * time.Duration(1<<uint(i))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
