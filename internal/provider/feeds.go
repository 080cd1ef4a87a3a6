package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/osintlab/tgscout/internal/model"
	"github.com/osintlab/tgscout/internal/util"
)

// Feeds polls configured RSS/Atom feeds (subreddit .rss endpoints,
// channel mirrors) and keeps items matching the query. Feed URLs may
// embed %s, replaced with the URL-safe query.
type Feeds struct {
	cfg    model.FeedsConfig
	parser *gofeed.Parser
	log    *slog.Logger
}

// NewFeeds creates the feed adapter.
func NewFeeds(cfg model.FeedsConfig, httpCfg model.HTTPConfig, log *slog.Logger) *Feeds {
	parser := gofeed.NewParser()
	parser.UserAgent = httpCfg.UserAgent
	if log == nil {
		log = slog.Default()
	}
	return &Feeds{cfg: cfg, parser: parser, log: log}
}

// Name implements Provider.
func (f *Feeds) Name() string { return string(model.SourceFeeds) }

// Search implements Provider. A single unreachable feed is logged and
// skipped; the adapter fails only when every feed fails.
func (f *Feeds) Search(ctx context.Context, query, scope string) ([]model.RawHit, error) {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}

	var hits []model.RawHit
	failures := 0
	for _, feedURL := range f.cfg.URLs {
		fetchURL := feedURL
		if strings.Contains(feedURL, "%s") {
			fetchURL = fmt.Sprintf(feedURL, strings.Join(terms, "+"))
		}

		feed, err := f.parser.ParseURLWithContext(fetchURL, ctx)
		if err != nil {
			f.log.Debug("feed fetch failed", "url", fetchURL, "error", err)
			failures++
			continue
		}

		name := feed.Title
		if scope != "" && !strings.EqualFold(name, scope) {
			continue
		}

		for _, item := range feed.Items {
			body := util.StripHTML(item.Description)
			if !matchesTerms(item.Title+" "+body+" "+item.Link, terms) {
				continue
			}
			hit := model.RawHit{
				Source:        model.SourceFeeds,
				Title:         item.Title,
				Body:          body,
				URL:           item.Link,
				SubCollection: name,
				Query:         query,
			}
			if len(item.Authors) > 0 {
				hit.Author = item.Authors[0].Name
			}
			if item.PublishedParsed != nil {
				t := item.PublishedParsed.UTC()
				hit.CreatedAt = &t
			}
			hits = append(hits, hit)
		}
	}

	if failures > 0 && failures == len(f.cfg.URLs) {
		return nil, fmt.Errorf("feeds: all %d feeds failed: %w", failures, ErrRetryable)
	}
	return hits, nil
}

// Search queries are built for web engines; strip operators and boiler
// terms down to the tokens worth matching feed text against.
func queryTerms(query string) []string {
	ignore := map[string]bool{
		"telegram": true, "channel": true, "group": true, "join": true,
		"link": true, "official": true, "chat": true, "community": true,
		"announcements": true, "reddit": true, "twitter": true,
	}

	cleaned := strings.NewReplacer(`"`, " ", "site:t.me", " ", "t.me/", " ", "telegram.me/", " ", "@", " ").Replace(query)
	var terms []string
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) < 4 || ignore[strings.ToLower(tok)] {
			continue
		}
		terms = append(terms, tok)
	}
	return terms
}

func matchesTerms(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
