package model

import (
	"fmt"
	"time"
)

// Options controls a single hunt run.
type Options struct {
	UseCache      bool   `json:"use_cache"`
	MaxResults    int    `json:"max_results"`
	MinConfidence int    `json:"min_confidence"`
	SubCollection string `json:"sub_collection,omitempty"` // Restrict scoped providers to one sub-collection
	IncludeStats  bool   `json:"include_stats"`
}

// DefaultOptions returns the standard run options.
func DefaultOptions() Options {
	return Options{
		UseCache:     true,
		MaxResults:   1000,
		IncludeStats: true,
	}
}

// Validate checks option bounds. Violations abort the run before any
// provider call is issued.
func (o Options) Validate() error {
	if o.MaxResults < 1 || o.MaxResults > 10000 {
		return &ValidationError{Field: "max_results", Message: fmt.Sprintf("must be in [1,10000], got %d", o.MaxResults)}
	}
	if o.MinConfidence < 0 || o.MinConfidence > 100 {
		return &ValidationError{Field: "min_confidence", Message: fmt.Sprintf("must be in [0,100], got %d", o.MinConfidence)}
	}
	return nil
}

// ValidationError is a pre-run rejection of an identifier or option.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// RunError records one recoverable failure encountered during a run.
// A run with errors and results is a success with degraded coverage.
type RunError struct {
	Provider string `json:"provider"`
	Phase    Phase  `json:"phase,omitempty"`
	Query    string `json:"query,omitempty"`
	Message  string `json:"message"`
}

// Statistics summarizes the final candidate list.
type Statistics struct {
	ConfidenceDistribution map[string]int `json:"confidence_distribution"` // Bucketed: high/medium/low
	KindDistribution       map[Kind]int   `json:"kind_distribution"`
	SourceDistribution     map[Source]int `json:"source_distribution"` // Counts every provenance entry
	AverageConfidence      float64        `json:"average_confidence"`
	EarliestSeen           *time.Time     `json:"earliest_seen,omitempty"`
	LatestSeen             *time.Time     `json:"latest_seen,omitempty"`
}

// Annotation is an optional per-candidate AI assessment. Annotations
// live in metadata only and never feed back into confidence.
type Annotation struct {
	Identifier  string   `json:"identifier"`
	Credibility string   `json:"credibility,omitempty"` // low, medium, high
	Sentiment   string   `json:"sentiment,omitempty"`
	ThreatFlags []string `json:"threat_flags,omitempty"`
}

// Metadata describes the run that produced a result.
type Metadata struct {
	Identifier  string       `json:"identifier"`
	TotalFound  int          `json:"total_found"` // Candidates surviving dedup, before quality filtering
	Timestamp   time.Time    `json:"timestamp"`
	Options     Options      `json:"options"`
	FromCache   bool         `json:"from_cache,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// HuntResult is the complete output of one aggregation run.
type HuntResult struct {
	Results    []Candidate `json:"results"`
	Metadata   Metadata    `json:"metadata"`
	Statistics *Statistics `json:"statistics,omitempty"`
	Errors     []RunError  `json:"errors,omitempty"`
}
