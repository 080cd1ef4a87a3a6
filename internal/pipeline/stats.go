package pipeline

import (
	"time"

	"github.com/osintlab/tgscout/internal/model"
)

// Confidence bucket boundaries for the distribution summary.
const (
	highConfidence   = 70
	mediumConfidence = 40
)

// Summarize computes run statistics over the final candidate list.
func Summarize(candidates []model.Candidate) *model.Statistics {
	stats := &model.Statistics{
		ConfidenceDistribution: map[string]int{"high": 0, "medium": 0, "low": 0},
		KindDistribution:       make(map[model.Kind]int),
		SourceDistribution:     make(map[model.Source]int),
	}

	var sum int
	var earliest, latest *time.Time
	for i := range candidates {
		c := &candidates[i]
		sum += c.Confidence

		switch {
		case c.Confidence >= highConfidence:
			stats.ConfidenceDistribution["high"]++
		case c.Confidence >= mediumConfidence:
			stats.ConfidenceDistribution["medium"]++
		default:
			stats.ConfidenceDistribution["low"]++
		}

		stats.KindDistribution[c.Kind]++
		for _, ref := range c.Provenance {
			stats.SourceDistribution[ref.Source]++
		}

		if c.FirstSeen != nil {
			if earliest == nil || c.FirstSeen.Before(*earliest) {
				earliest = c.FirstSeen
			}
			if latest == nil || c.FirstSeen.After(*latest) {
				latest = c.FirstSeen
			}
		}
	}

	if len(candidates) > 0 {
		stats.AverageConfidence = float64(sum) / float64(len(candidates))
	}
	stats.EarliestSeen = earliest
	stats.LatestSeen = latest
	return stats
}
