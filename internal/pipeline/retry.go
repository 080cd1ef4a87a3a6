package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/osintlab/tgscout/internal/model"
	"github.com/osintlab/tgscout/internal/provider"
)

// sleepFunc is the pause used between retry attempts (injectable for tests).
var sleepFunc = time.Sleep

// searchWithRetry retries transient provider errors with linear backoff:
// attempt n waits n*backoff. Unavailable errors and context cancellation
// are returned immediately.
func (p *Pipeline) searchWithRetry(ctx context.Context, prov provider.Provider, q, scope string) ([]model.RawHit, error) {
	attempts := p.cfg.Hunt.Retries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		hits, err := prov.Search(ctx, q, scope)
		if err == nil {
			return hits, nil
		}
		lastErr = err

		if !errors.Is(err, provider.ErrRetryable) || ctx.Err() != nil {
			return nil, err
		}
		if attempt < attempts {
			sleepFunc(time.Duration(attempt) * p.cfg.Hunt.RetryBackoff)
		}
	}
	return nil, lastErr
}

func isUnavailable(err error) bool {
	return errors.Is(err, provider.ErrUnavailable)
}
