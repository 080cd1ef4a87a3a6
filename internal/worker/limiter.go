package worker

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces outbound requests per provider. On top of the token
// bucket it enforces the mandatory inter-request delay: external
// services throttle or ban clients that burst, so skipping the delay
// changes observable behavior.
type Limiter struct {
	mu           sync.RWMutex
	limiters     map[string]*rate.Limiter
	defaultRate  rate.Limit
	defaultBurst int
	delay        time.Duration
}

// NewLimiter creates a limiter. delay is the fixed pause appended after
// every cleared request.
func NewLimiter(requestsPerSecond float64, burst int, delay time.Duration) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
		delay:        delay,
	}
}

// Wait blocks until the named provider's bucket clears.
func (l *Limiter) Wait(ctx context.Context, provider string) error {
	return l.limiter(provider).Wait(ctx)
}

// WaitWithDelay blocks for bucket clearance plus the configured
// inter-request delay.
func (l *Limiter) WaitWithDelay(ctx context.Context, provider string) error {
	if err := l.Wait(ctx, provider); err != nil {
		return err
	}
	if l.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(l.delay):
		return nil
	}
}

// SetProviderRate overrides the rate for one provider.
func (l *Limiter) SetProviderRate(provider string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if burst <= 0 {
		burst = l.defaultBurst
	}
	l.limiters[provider] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

func (l *Limiter) limiter(provider string) *rate.Limiter {
	l.mu.RLock()
	lim, exists := l.limiters[provider]
	l.mu.RUnlock()
	if exists {
		return lim
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, exists := l.limiters[provider]; exists {
		return lim
	}
	lim = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[provider] = lim
	return lim
}
