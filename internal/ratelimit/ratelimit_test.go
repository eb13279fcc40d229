package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amishk599/draftin/internal/ai"
	"github.com/amishk599/draftin/internal/model"
)

type mockProvider struct {
	calls int
	err   error
}

func (m *mockProvider) Complete(_ context.Context, _ ai.ChatRequest) (string, error) {
	m.calls++
	return "ok", m.err
}

func TestWait_BurstPassesImmediately(t *testing.T) {
	limiter := NewLimiter(1, 3)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("burst of 3 should not block, took %v", elapsed)
	}
}

func TestWait_EnforcesRate(t *testing.T) {
	// 600/min = one token every 100ms.
	limiter := NewLimiter(600, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("first wait: %v", err)
	}
	start := time.Now()
	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	// Allow 80ms for timer jitter.
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait, got %v", elapsed)
	}
}

func TestWait_ZeroRateIsUnlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 20; i++ {
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("unlimited limiter blocked for %v", elapsed)
	}
}

func TestWait_ContextCancelled(t *testing.T) {
	limiter := NewLimiter(1, 1)
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err == nil {
		t.Fatal("expected error when context expires before a token is available")
	}
}

func TestBackoff_DelaysNextWait(t *testing.T) {
	limiter := NewLimiter(0, 1)
	limiter.Backoff(100 * time.Millisecond)
	limiter.Backoff(10 * time.Millisecond) // shorter, ignored

	start := time.Now()
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms backoff, got %v", elapsed)
	}
}

func TestRateLimitedProvider_BacksOffOn429(t *testing.T) {
	limiter := NewLimiter(0, 1)
	mock := &mockProvider{err: &model.HTTPError{StatusCode: 429, RetryAfter: time.Minute, Err: model.ErrRateLimited}}
	p := NewRateLimitedProvider(mock, limiter)

	if _, err := p.Complete(context.Background(), ai.ChatRequest{}); !errors.Is(err, model.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := p.Complete(ctx, ai.ChatRequest{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected backoff to hold the next call, got %v", err)
	}
	if mock.calls != 1 {
		t.Errorf("expected 1 call to reach the provider, got %d", mock.calls)
	}
}

func TestRateLimitedProvider_Delegates(t *testing.T) {
	mock := &mockProvider{}
	p := NewRateLimitedProvider(mock, NewLimiter(60, 2))

	got, err := p.Complete(context.Background(), ai.ChatRequest{})
	if err != nil || got != "ok" {
		t.Fatalf("got %q, %v", got, err)
	}
	if mock.calls != 1 {
		t.Errorf("calls = %d", mock.calls)
	}
}
