package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mgrims/doclens/internal/embed"
	"github.com/mgrims/doclens/internal/relevance"
)

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *embed.RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}

const MaxRetries = 3

// RetryingEmbedder wraps an embedder with bounded retries on transient
// upstream failures, so scorers see at most one final error per text.
type RetryingEmbedder struct {
	Inner relevance.Embedder
	Log   *slog.Logger
}

func (r *RetryingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var vec []float32
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		vec, lastErr = r.Inner.Embed(ctx, text)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		if attempt == MaxRetries-1 {
			break
		}
		if r.Log != nil {
			r.Log.Warn("retryable embedding error", "attempt", attempt, "error", lastErr)
		}
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return vec, lastErr
}
