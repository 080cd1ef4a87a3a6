package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/osintlab/tgscout/internal/model"
)

const redditEndpoint = "https://www.reddit.com"

// Reddit queries the public JSON search API. Scope restricts the search
// to a single subreddit.
type Reddit struct {
	cfg model.RedditConfig
	hc  *httpClient
}

// NewReddit creates the Reddit adapter.
func NewReddit(cfg model.RedditConfig, hc *httpClient) *Reddit {
	return &Reddit{cfg: cfg, hc: hc}
}

// Name implements Provider.
func (r *Reddit) Name() string { return string(model.SourceReddit) }

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title       string  `json:"title"`
				Selftext    string  `json:"selftext"`
				Permalink   string  `json:"permalink"`
				Score       int     `json:"score"`
				NumComments int     `json:"num_comments"`
				Subreddit   string  `json:"subreddit"`
				Author      string  `json:"author"`
				ID          string  `json:"id"`
				CreatedUTC  float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Search implements Provider.
func (r *Reddit) Search(ctx context.Context, query, scope string) ([]model.RawHit, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", "25")
	params.Set("sort", "relevance")

	endpoint := redditEndpoint + "/search.json"
	if scope != "" {
		params.Set("restrict_sr", "1")
		endpoint = fmt.Sprintf("%s/r/%s/search.json", redditEndpoint, url.PathEscape(scope))
	}

	body, err := r.hc.get(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("reddit search: %w", err)
	}

	var listing redditListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("reddit search: decode: %v: %w", err, ErrRetryable)
	}

	hits := make([]model.RawHit, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		d := child.Data
		hit := model.RawHit{
			Source:        model.SourceReddit,
			Title:         d.Title,
			Body:          d.Selftext,
			URL:           redditEndpoint + d.Permalink,
			Popularity:    d.Score,
			Comments:      d.NumComments,
			SubCollection: d.Subreddit,
			Author:        d.Author,
			ID:            d.ID,
			Query:         query,
		}
		if d.CreatedUTC > 0 {
			created := time.Unix(int64(d.CreatedUTC), 0).UTC()
			hit.CreatedAt = &created
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Subreddits returns the configured default sub-collections.
func (r *Reddit) Subreddits() []string {
	return r.cfg.Subreddits
}
