// Package provider defines the search adapter contract and the concrete
// adapters for each external source. The pipeline depends only on the
// Provider interface and never branches on provider identity.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/osintlab/tgscout/internal/model"
	"github.com/osintlab/tgscout/internal/util"
)

// Provider is the adapter contract: run one query, optionally scoped to
// a sub-collection, and return raw hits. Calls must be idempotent so
// the orchestrator can retry them.
type Provider interface {
	Name() string
	Search(ctx context.Context, query, scope string) ([]model.RawHit, error)
}

// ErrRetryable marks transient failures (timeout, 5xx, 429). The
// orchestrator retries these with linear backoff, then skips the query.
var ErrRetryable = errors.New("transient provider error")

// ErrUnavailable marks authentication/configuration failures. The
// orchestrator sidelines the provider for the rest of the run.
var ErrUnavailable = errors.New("provider unavailable")

// StatusError carries the HTTP status behind a classified error so
// adapters can special-case individual codes.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d", e.Code)
}

// Unwrap maps the status onto the error taxonomy: 429 and 5xx are
// transient, every other failure sidelines the provider.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusTooManyRequests || e.Code >= 500 {
		return ErrRetryable
	}
	return ErrUnavailable
}

// classifyStatus maps an HTTP status to the error taxonomy.
func classifyStatus(code int) error {
	if code >= 200 && code < 300 {
		return nil
	}
	return &StatusError{Code: code}
}

// httpClient is the shared HTTP plumbing for adapters.
type httpClient struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	log       *slog.Logger
}

func newHTTPClient(cfg model.HTTPConfig, log *slog.Logger) *httpClient {
	if log == nil {
		log = slog.Default()
	}
	return &httpClient{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		log:       log,
	}
}

// get fetches url and returns the body, classified per the error
// taxonomy. Network errors are treated as transient.
func (c *httpClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %v: %w", err, ErrRetryable)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := classifyStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %v: %w", err, ErrRetryable)
	}
	return body, nil
}

// NewProviders builds every adapter the configuration enables, in a
// fixed order so runs are deterministic.
func NewProviders(cfg *model.Config, log *slog.Logger) []Provider {
	if log == nil {
		log = slog.Default()
	}
	hc := newHTTPClient(cfg.HTTP, log)

	var providers []Provider
	if cfg.Providers.Google.APIKey != "" && cfg.Providers.Google.EngineID != "" {
		providers = append(providers, NewGoogle(cfg.Providers.Google, hc))
	}
	if cfg.Providers.Bing.Enabled {
		providers = append(providers, NewBing(cfg.Providers.Bing, cfg.HTTP, hc))
	}
	if cfg.Providers.Reddit.Enabled {
		providers = append(providers, NewReddit(cfg.Providers.Reddit, hc))
	}
	if cfg.Providers.Telegram.BotToken != "" {
		providers = append(providers, NewTelegram(cfg.Providers.Telegram, hc))
	}
	if len(cfg.Providers.Feeds.URLs) > 0 {
		providers = append(providers, NewFeeds(cfg.Providers.Feeds, cfg.HTTP, log))
	}

	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	log.Debug("configured providers", "providers", names)
	return providers
}
