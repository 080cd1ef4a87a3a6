package provider

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/osintlab/tgscout/internal/model"
	"github.com/osintlab/tgscout/internal/util"
)

const bingEndpoint = "https://www.bing.com/search"

// Bing scrapes the public result page. It checks robots.txt before
// every fetch when configured to.
type Bing struct {
	cfg    model.BingConfig
	hc     *httpClient
	robots *util.RobotsChecker
}

// NewBing creates the Bing adapter.
func NewBing(cfg model.BingConfig, httpCfg model.HTTPConfig, hc *httpClient) *Bing {
	b := &Bing{cfg: cfg, hc: hc}
	if cfg.RespectRobots {
		b.robots = util.NewRobotsChecker(httpCfg.UserAgent, httpCfg.Timeout)
	}
	return b
}

// Name implements Provider.
func (b *Bing) Name() string { return string(model.SourceBing) }

// Search implements Provider. Scope restricts results to one site.
func (b *Bing) Search(ctx context.Context, query, scope string) ([]model.RawHit, error) {
	q := query
	if scope != "" {
		q = fmt.Sprintf("site:%s %s", scope, query)
	}
	searchURL := bingEndpoint + "?" + url.Values{"q": {q}}.Encode()

	if b.robots != nil && !b.robots.Allowed(ctx, searchURL) {
		return nil, fmt.Errorf("bing search: disallowed by robots.txt: %w", ErrUnavailable)
	}

	body, err := b.hc.get(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("bing search: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("bing search: parse: %v: %w", err, ErrRetryable)
	}

	var hits []model.RawHit
	doc.Find("li.b_algo").Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find("h2 a")
		href, _ := link.Attr("href")
		title := strings.TrimSpace(link.Text())
		snippet := strings.TrimSpace(sel.Find(".b_caption p").First().Text())
		if href == "" || title == "" {
			return
		}
		hits = append(hits, model.RawHit{
			Source: model.SourceBing,
			Title:  title,
			Body:   snippet,
			URL:    href,
			Query:  query,
		})
	})
	return hits, nil
}
