package geminiEmbedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kparuchuri/docqa-agent/internal/domain/ragerr"
	"github.com/kparuchuri/docqa-agent/pkg/logger_i"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func testLogger() *logger_i.Logger {
	logger_i.Init()
	return logger_i.NewLogger("retry test")
}

func TestWithRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, time.Millisecond, testLogger(), func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestWithRetry_RetriesOnRateLimit(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, time.Millisecond, testLogger(), func() error {
		calls++
		if calls < 3 {
			return status.Error(codes.ResourceExhausted, "quota")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetry_ExhaustedBecomesRateLimited(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, time.Millisecond, testLogger(), func() error {
		calls++
		return status.Error(codes.ResourceExhausted, "quota")
	})
	if calls != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", calls)
	}
	if !ragerr.IsKind(err, ragerr.RateLimited) {
		t.Errorf("expected RateLimited kind, got %v", err)
	}
	var re *ragerr.Error
	if errors.As(err, &re) && re.RetryAfter <= 0 {
		t.Error("expected a suggested wait on the rate limit error")
	}
}

func TestWithRetry_NonRateLimitFailsImmediately(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, time.Millisecond, testLogger(), func() error {
		calls++
		return errors.New("bad request")
	})
	if calls != 1 {
		t.Errorf("non rate-limit errors should not be retried, got %d calls", calls)
	}
	if !ragerr.IsKind(err, ragerr.EmbeddingFailure) {
		t.Errorf("expected EmbeddingFailure kind, got %v", err)
	}
}

func TestWithRetry_ContextCancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := withRetry(ctx, 3, time.Minute, testLogger(), func() error {
		return status.Error(codes.ResourceExhausted, "quota")
	})
	if !ragerr.IsKind(err, ragerr.EmbeddingFailure) {
		t.Errorf("expected EmbeddingFailure on cancellation, got %v", err)
	}
}
