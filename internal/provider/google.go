package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/osintlab/tgscout/internal/model"
)

const googleEndpoint = "https://www.googleapis.com/customsearch/v1"

// Google queries the Custom Search JSON API.
type Google struct {
	cfg model.GoogleConfig
	hc  *httpClient
}

// NewGoogle creates the Google adapter.
func NewGoogle(cfg model.GoogleConfig, hc *httpClient) *Google {
	return &Google{cfg: cfg, hc: hc}
}

// Name implements Provider.
func (g *Google) Name() string { return string(model.SourceGoogle) }

type googleResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"items"`
}

// Search implements Provider. Scope restricts results to one site.
func (g *Google) Search(ctx context.Context, query, scope string) ([]model.RawHit, error) {
	q := query
	if scope != "" {
		q = fmt.Sprintf("site:%s %s", scope, query)
	}

	params := url.Values{}
	params.Set("key", g.cfg.APIKey)
	params.Set("cx", g.cfg.EngineID)
	params.Set("q", q)
	params.Set("num", "10")

	body, err := g.hc.get(ctx, googleEndpoint+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("google search: %w", err)
	}

	var resp googleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("google search: decode: %v: %w", err, ErrRetryable)
	}

	hits := make([]model.RawHit, 0, len(resp.Items))
	for _, item := range resp.Items {
		hits = append(hits, model.RawHit{
			Source: model.SourceGoogle,
			Title:  item.Title,
			Body:   item.Snippet,
			URL:    item.Link,
			Query:  query,
		})
	}
	return hits, nil
}
