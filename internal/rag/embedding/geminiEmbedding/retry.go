package geminiEmbedding

import (
	"context"
	"time"

	"github.com/kparuchuri/docqa-agent/internal/domain/ragerr"
	"github.com/kparuchuri/docqa-agent/pkg/logger_i"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func isRateLimit(err error) bool {
	if s, ok := status.FromError(err); ok {
		return s.Code() == codes.ResourceExhausted
	}
	return false
}

// withRetry runs fn up to maxAttempts times with exponential backoff,
// retrying only rate-limit failures. Anything else fails immediately:
// a malformed request does not get better by waiting.
func withRetry(ctx context.Context, maxAttempts int, backoff time.Duration, log *logger_i.Logger, fn func() error) error {
	var err error
	wait := backoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !isRateLimit(err) {
			return ragerr.Wrap(ragerr.EmbeddingFailure, "embedding call failed", err)
		}
		if attempt == maxAttempts {
			break
		}
		log.Warn("Rate limit hit, backing off", "attempt", attempt, "wait", wait)
		select {
		case <-ctx.Done():
			return ragerr.Wrap(ragerr.EmbeddingFailure, "embedding cancelled during backoff", ctx.Err())
		case <-time.After(wait):
		}
		wait *= 2
	}
	return ragerr.Limited("embedding provider rate limit, retries exhausted", wait, err)
}
