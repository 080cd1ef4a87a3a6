package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_DelayEnforced(t *testing.T) {
	l := NewLimiter(1000, 10, 30*time.Millisecond)

	start := time.Now()
	for i := 0; i < 2; i++ {
		if err := l.WaitWithDelay(context.Background(), "google"); err != nil {
			t.Fatalf("WaitWithDelay: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("two delayed waits finished in %v, want >= 60ms", elapsed)
	}
}

func TestLimiter_ZeroDelayDoesNotBlock(t *testing.T) {
	l := NewLimiter(1000, 10, 0)

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := l.WaitWithDelay(context.Background(), "google"); err != nil {
			t.Fatalf("WaitWithDelay: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("zero-delay waits took %v", elapsed)
	}
}

func TestLimiter_CancelledContext(t *testing.T) {
	l := NewLimiter(0.001, 1, 0)
	// Drain the single token so the next wait must block.
	if err := l.Wait(context.Background(), "bing"); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, "bing"); err == nil {
		t.Error("expected context error on exhausted bucket")
	}
}

func TestLimiter_PerProviderBuckets(t *testing.T) {
	l := NewLimiter(0.001, 1, 0)

	// Draining one provider's bucket must not affect another's.
	if err := l.Wait(context.Background(), "google"); err != nil {
		t.Fatalf("google Wait: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, "reddit"); err != nil {
		t.Errorf("reddit bucket drained by google: %v", err)
	}
}

func TestLimiter_SetProviderRate(t *testing.T) {
	l := NewLimiter(0.001, 1, 0)
	l.SetProviderRate("telegram", 1000, 10)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(context.Background(), "telegram"); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("overridden rate still slow: %v", elapsed)
	}
}
