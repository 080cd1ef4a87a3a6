package model

import (
	"strings"
	"time"
)

// Kind classifies the probable destination type. It is inferred from
// surrounding text and link shape, never authoritative.
type Kind string

const (
	KindChannel  Kind = "channel"
	KindGroup    Kind = "group"
	KindBot      Kind = "bot"
	KindInvite   Kind = "invite"   // Opaque invite token, identifier kept verbatim
	KindUnknown  Kind = "unknown"
	KindInferred Kind = "inferred" // Guessed from context, weighted down by scoring
)

// SourceRef is one provenance entry: the evidence trail of a hit that
// contributed to a candidate. The list on a candidate is append-only.
type SourceRef struct {
	Source        Source     `json:"source"`
	SubCollection string     `json:"sub_collection,omitempty"`
	Popularity    int        `json:"popularity,omitempty"`
	Title         string     `json:"title,omitempty"`
	URL           string     `json:"url,omitempty"` // Originating post/page, not the destination
	Query         string     `json:"query,omitempty"`
	Phase         Phase      `json:"phase,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// Candidate is a normalized probable destination inferred from one or
// more raw hits.
type Candidate struct {
	Identifier      string      `json:"identifier"` // Canonical handle, or raw token for invites
	URL             string      `json:"url"`
	Kind            Kind        `json:"kind"`
	Confidence      int         `json:"confidence"` // 0-100, clamped after every adjustment
	Verified        bool        `json:"verified"`   // Heuristic flag, not a platform guarantee
	PatternPriority int         `json:"-"`          // Index of the extraction pattern that produced it; lower = more specific
	Provenance      []SourceRef `json:"provenance"`
	FirstSeen       *time.Time  `json:"first_seen,omitempty"`
}

// Corroboration returns the number of distinct contributing sources.
func (c *Candidate) Corroboration() int {
	return len(c.Provenance)
}

// Popularity returns the highest provider-native popularity across the
// candidate's provenance. It can be negative when every contributing
// post was downvoted.
func (c *Candidate) Popularity() int {
	if len(c.Provenance) == 0 {
		return 0
	}
	best := c.Provenance[0].Popularity
	for _, ref := range c.Provenance[1:] {
		if ref.Popularity > best {
			best = ref.Popularity
		}
	}
	return best
}

// ExactMatch reports whether the candidate's identifier equals the
// searched identifier, ignoring case.
func (c *Candidate) ExactMatch(identifier string) bool {
	return strings.EqualFold(c.Identifier, identifier)
}
