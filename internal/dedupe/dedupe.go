// Package dedupe merges candidates that point at the same normalized
// destination, preserving the provenance of every contributing hit.
package dedupe

import (
	"strings"
	"time"

	"github.com/osintlab/tgscout/internal/model"
)

// Key normalizes a destination URL into the merge key: lowercase, no
// scheme, no "www.", no trailing slash.
func Key(rawURL string) string {
	key := strings.ToLower(strings.TrimSpace(rawURL))
	key = strings.TrimPrefix(key, "https://")
	key = strings.TrimPrefix(key, "http://")
	key = strings.TrimPrefix(key, "www.")
	return strings.TrimSuffix(key, "/")
}

// Merge collapses candidates sharing a merge key. The higher-confidence
// candidate survives; on a tie the earlier one does. The loser's
// provenance is appended to the survivor's, never dropped, so repeated
// merges keep accumulating evidence.
func Merge(candidates []model.Candidate) []model.Candidate {
	byKey := make(map[string]*model.Candidate)
	var order []string

	for i := range candidates {
		c := candidates[i]
		key := Key(c.URL)

		existing, ok := byKey[key]
		if !ok {
			clone := c
			clone.Provenance = append([]model.SourceRef(nil), c.Provenance...)
			byKey[key] = &clone
			order = append(order, key)
			continue
		}

		if c.Confidence > existing.Confidence {
			// New candidate wins; carry over the accumulated provenance
			merged := c
			merged.Provenance = append(append([]model.SourceRef(nil), existing.Provenance...), c.Provenance...)
			merged.FirstSeen = earliest(existing.FirstSeen, c.FirstSeen)
			if c.PatternPriority > existing.PatternPriority {
				merged.PatternPriority = existing.PatternPriority
			}
			*existing = merged
			continue
		}

		existing.Provenance = append(existing.Provenance, c.Provenance...)
		existing.FirstSeen = earliest(existing.FirstSeen, c.FirstSeen)
		if c.PatternPriority < existing.PatternPriority {
			existing.PatternPriority = c.PatternPriority
		}
		if existing.Kind == model.KindUnknown || existing.Kind == model.KindInferred {
			if c.Kind != model.KindUnknown && c.Kind != model.KindInferred {
				existing.Kind = c.Kind
			}
		}
	}

	out := make([]model.Candidate, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out
}

func earliest(a, b *time.Time) *time.Time {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if b.Before(*a) {
		return b
	}
	return a
}
