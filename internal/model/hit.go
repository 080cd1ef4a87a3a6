package model

import "time"

// Source identifies the provider a hit came from
type Source string

const (
	SourceGoogle   Source = "google"
	SourceBing     Source = "bing"
	SourceReddit   Source = "reddit"
	SourceTelegram Source = "telegram"
	SourceFeeds    Source = "feeds"
)

// Phase identifies the query-generation strategy that issued a query
type Phase string

const (
	PhasePattern    Phase = "pattern"    // Fixed phrase templates around the identifier
	PhaseVariation  Phase = "variation"  // Mutated identifiers (separators, suffixes, affixes)
	PhaseContextual Phase = "contextual" // Cross-platform / topical phrasings
)

// RawHit is one unprocessed item returned by a single provider query.
// Hits are transient: they exist between the provider call and extraction,
// after which only their SourceRef summary survives inside candidates.
type RawHit struct {
	Source        Source     `json:"source"`
	Title         string     `json:"title,omitempty"`
	Body          string     `json:"body,omitempty"`
	URL           string     `json:"url,omitempty"`
	Popularity    int        `json:"popularity,omitempty"`     // Provider-native score (upvotes, member count)
	Comments      int        `json:"comments,omitempty"`       // Reply/comment count where the provider has one
	SubCollection string     `json:"sub_collection,omitempty"` // Subreddit, feed name, site section
	Author        string     `json:"author,omitempty"`
	ID            string     `json:"id,omitempty"`
	Query         string     `json:"query"`
	Phase         Phase      `json:"phase"`
	CreatedAt     *time.Time `json:"created_at,omitempty"` // Best effort; nil = unknown
}

// Ref summarizes the hit as a provenance entry.
func (h *RawHit) Ref() SourceRef {
	return SourceRef{
		Source:        h.Source,
		SubCollection: h.SubCollection,
		Popularity:    h.Popularity,
		Title:         h.Title,
		URL:           h.URL,
		Query:         h.Query,
		Phase:         h.Phase,
		CreatedAt:     h.CreatedAt,
	}
}
