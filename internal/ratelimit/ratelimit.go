package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/amishk599/draftin/internal/ai"
	"github.com/amishk599/draftin/internal/model"
)

// Limiter is a token bucket over LLM requests that also backs off after a
// 429 told it to.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewLimiter allows requestsPerMinute sustained with bursts of burst.
// A non-positive rate disables limiting.
func NewLimiter(requestsPerMinute float64, burst int) *Limiter {
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Limit(requestsPerMinute / 60)
	}
	return &Limiter{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a request may be sent. Returns an error if the context is
// cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("rate limiter backoff: %w", ctx.Err())
		case <-time.After(wait):
		}
	}

	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return nil
}

// Backoff holds every caller until d has passed. A shorter backoff never
// cuts an existing one short.
func (l *Limiter) Backoff(d time.Duration) {
	if d <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if at := time.Now().Add(d); at.After(l.retryAt) {
		l.retryAt = at
	}
}

// RateLimitedProvider is a decorator that waits on a shared Limiter before
// delegating to the wrapped LLMProvider.
type RateLimitedProvider struct {
	inner   ai.LLMProvider
	limiter *Limiter
}

// NewRateLimitedProvider wraps an LLMProvider with client-side rate limiting.
// Providers calling the same API account should share one limiter.
func NewRateLimitedProvider(inner ai.LLMProvider, limiter *Limiter) *RateLimitedProvider {
	return &RateLimitedProvider{
		inner:   inner,
		limiter: limiter,
	}
}

// Complete waits for the limiter, then delegates. A 429 carrying Retry-After
// pushes the limiter into backoff.
func (p *RateLimitedProvider) Complete(ctx context.Context, req ai.ChatRequest) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}
	out, err := p.inner.Complete(ctx, req)

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests {
		p.limiter.Backoff(httpErr.RetryAfter)
	}
	return out, err
}
