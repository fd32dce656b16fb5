package llm

import (
	"context"
	"fmt"
	"time"
)

// Retry runs fn up to attempts times with linear backoff. It returns early
// when the context is cancelled so abandoned work does not keep hitting the
// backend.
func Retry[T any](ctx context.Context, attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(time.Duration(500*(i+1)) * time.Millisecond):
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
