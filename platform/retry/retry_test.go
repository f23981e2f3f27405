package retry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"transaction_dashboard_backend/platform/logger"
)

func TestDo_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), logger.Discard(), "flaky", 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDo_ReturnsLastError(t *testing.T) {
	err := Do(context.Background(), logger.Discard(), "database", 2, time.Millisecond, func() error {
		return errors.New("connection refused")
	})
	if err == nil || !strings.Contains(err.Error(), "database: connection refused") {
		t.Fatalf("expected wrapped last error, got %v", err)
	}
}

func TestDo_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, logger.Discard(), "cancelled", 5, time.Millisecond, func() error {
		calls++
		return nil
	})
	if !errors.Is(err, context.Canceled) || calls != 0 {
		t.Fatalf("expected cancellation before any call, got %v after %d calls", err, calls)
	}
}

func TestDo_RejectsZeroAttempts(t *testing.T) {
	if err := Do(context.Background(), logger.Discard(), "none", 0, time.Millisecond, func() error { return nil }); err == nil {
		t.Fatal("expected error for zero attempts")
	}
}
