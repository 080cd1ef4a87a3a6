// Package score computes candidate confidence as an ordered fold of
// named signed contributions over a base value, clamped to [0,100].
package score

import (
	"strings"

	"github.com/osintlab/tgscout/internal/model"
	"github.com/osintlab/tgscout/internal/util"
)

const (
	baseConfidence = 50

	// Identifier similarity to the search target
	exactMatchBonus = 12
	containsBonus   = 8
	similarityScale = 8

	// Source popularity tiers; each threshold crossed adds its increment
	popularityTier1 = 10
	popularityTier2 = 50
	popularityTier3 = 200
	tier1Bonus      = 2
	tier2Bonus      = 2
	tier3Bonus      = 3
	negativePenalty = -5

	// Sub-collection specialization
	specializedBonus = 15
	adjacentBonus    = 7

	// Corroboration across merged provenance
	corroborationBonus = 6

	invitePenalty   = -8
	inferredPenalty = -12
)

// patternBonuses is indexed by extraction pattern priority; more
// specific patterns earn more. Priorities past the table earn nothing.
var patternBonuses = []int{20, 16, 12, 10, 6}

// Trust keyword weights applied per contributing post title. Negative
// weights dominate every positive bonus class.
var trustKeywords = map[string]int{
	"official": 5,
	"verified": 5,
	"legit":    3,
	"scam":     -30,
	"fake":     -25,
	"fraud":    -30,
	"phishing": -30,
	"stolen":   -20,
}

// Scorer computes confidence for extracted candidates. It is pure:
// the same candidate and identifier always produce the same score.
type Scorer struct {
	specialized map[string]bool
	adjacent    map[string]bool
}

// NewScorer creates a scorer with the default sub-collection topic sets.
func NewScorer() *Scorer {
	return &Scorer{
		specialized: toSet("telegram", "telegramchannels", "telegramgroups", "tgchannels", "osint"),
		adjacent:    toSet("crypto", "cryptocurrency", "privacy", "security", "messaging", "darknetmarkets"),
	}
}

// Score returns the candidate with its confidence recomputed from its
// provenance and relationship to the original search identifier.
func (s *Scorer) Score(c model.Candidate, identifier string) model.Candidate {
	steps := []struct {
		name string
		fn   func(*model.Candidate, string) int
	}{
		{"similarity", s.similarity},
		{"pattern", s.patternSpecificity},
		{"popularity", s.popularity},
		{"specialization", s.specialization},
		{"corroboration", s.corroboration},
		{"trust", s.keywordTrust},
		{"kind", s.kindAdjustment},
	}

	total := baseConfidence
	for _, step := range steps {
		total += step.fn(&c, identifier)
	}

	c.Confidence = clamp(total)
	c.Verified = c.ExactMatch(identifier) && c.Corroboration() >= 2 && c.Confidence >= 70
	return c
}

// similarity: exact match beats substring containment beats scaled
// edit-distance similarity.
func (s *Scorer) similarity(c *model.Candidate, identifier string) int {
	if c.Kind == model.KindInvite {
		return 0 // Opaque token, similarity is meaningless
	}
	if c.ExactMatch(identifier) {
		return exactMatchBonus
	}
	id := strings.ToLower(identifier)
	cand := strings.ToLower(c.Identifier)
	if strings.Contains(cand, id) || strings.Contains(id, cand) {
		return containsBonus
	}
	return int(util.Similarity(cand, id) * similarityScale)
}

func (s *Scorer) patternSpecificity(c *model.Candidate, _ string) int {
	if c.PatternPriority >= 0 && c.PatternPriority < len(patternBonuses) {
		return patternBonuses[c.PatternPriority]
	}
	return 0
}

func (s *Scorer) popularity(c *model.Candidate, _ string) int {
	pop := c.Popularity()
	if pop < 0 {
		return negativePenalty
	}
	delta := 0
	if pop > popularityTier1 {
		delta += tier1Bonus
	}
	if pop > popularityTier2 {
		delta += tier2Bonus
	}
	if pop > popularityTier3 {
		delta += tier3Bonus
	}
	return delta
}

// specialization: one bonus for a topically specialized sub-collection
// anywhere in the provenance, a smaller one for an adjacent topic.
func (s *Scorer) specialization(c *model.Candidate, _ string) int {
	best := 0
	for _, ref := range c.Provenance {
		name := strings.ToLower(ref.SubCollection)
		if name == "" {
			continue
		}
		if s.specialized[name] && best < specializedBonus {
			best = specializedBonus
		}
		if s.adjacent[name] && best < adjacentBonus {
			best = adjacentBonus
		}
	}
	return best
}

func (s *Scorer) corroboration(c *model.Candidate, _ string) int {
	extra := c.Corroboration() - 1
	if extra <= 0 {
		return 0
	}
	return extra * corroborationBonus
}

func (s *Scorer) keywordTrust(c *model.Candidate, _ string) int {
	delta := 0
	for _, ref := range c.Provenance {
		title := strings.ToLower(ref.Title)
		for kw, w := range trustKeywords {
			if strings.Contains(title, kw) {
				delta += w
			}
		}
	}
	return delta
}

func (s *Scorer) kindAdjustment(c *model.Candidate, _ string) int {
	switch c.Kind {
	case model.KindInvite:
		return invitePenalty
	case model.KindInferred:
		return inferredPenalty
	default:
		return 0
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func toSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
