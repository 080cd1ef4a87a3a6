// Package rank applies the quality filter and the final candidate
// ordering.
package rank

import (
	"sort"
	"strings"

	"github.com/osintlab/tgscout/internal/extract"
	"github.com/osintlab/tgscout/internal/model"
)

// Identifiers matching these are dropped regardless of confidence.
var suspicious = map[string]bool{
	"admin": true, "administrator": true, "support": true, "help": true,
	"scam": true, "fake": true, "test": true, "spam": true, "moderator": true,
}

// Filter drops low-confidence and low-quality candidates. minConfidence
// is the larger of the configured quality floor and the caller's option.
func Filter(candidates []model.Candidate, minConfidence int) []model.Candidate {
	out := make([]model.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Confidence < minConfidence {
			continue
		}
		if c.Kind != model.KindInvite {
			if len(c.Identifier) < 5 || !extract.IsValidIdentifier(c.Identifier) {
				continue
			}
			if suspicious[strings.ToLower(c.Identifier)] {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// Rank orders candidates by sequential tie-break keys: exact identifier
// match first, then confidence, popularity, and corroboration, all
// descending. The sort is stable so equal candidates keep input order.
func Rank(candidates []model.Candidate, identifier string) []model.Candidate {
	out := append([]model.Candidate(nil), candidates...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]

		am, bm := a.ExactMatch(identifier), b.ExactMatch(identifier)
		if am != bm {
			return am
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if ap, bp := a.Popularity(), b.Popularity(); ap != bp {
			return ap > bp
		}
		return a.Corroboration() > b.Corroboration()
	})
	return out
}
