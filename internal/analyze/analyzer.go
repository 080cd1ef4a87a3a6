// Package analyze produces optional AI assessments of ranked
// candidates. Annotations are metadata only: they never feed back into
// confidence scoring and their failure never fails a hunt.
package analyze

import (
	"context"
	"fmt"
	"strings"

	"github.com/osintlab/tgscout/internal/model"
)

// maxAnnotated bounds prompt size; only the top-ranked candidates are
// worth a model call.
const maxAnnotated = 20

// Annotator is the AI backend contract.
type Annotator interface {
	Name() string
	Annotate(ctx context.Context, prompt string) (string, error)
}

// Analyzer drives an Annotator and parses its output.
type Analyzer struct {
	backend Annotator
}

// NewAnalyzer builds an analyzer for the configured backend. An empty
// provider name disables analysis and returns nil with no error.
func NewAnalyzer(cfg model.AnalysisConfig) (*Analyzer, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		backend, err := NewOpenAI(cfg)
		if err != nil {
			return nil, err
		}
		return &Analyzer{backend: backend}, nil
	default:
		return nil, fmt.Errorf("unknown analysis provider: %q", cfg.Provider)
	}
}

// Annotate assesses the top candidates for credibility, sentiment, and
// threat indicators.
func (a *Analyzer) Annotate(ctx context.Context, identifier string, candidates []model.Candidate) ([]model.Annotation, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if len(candidates) > maxAnnotated {
		candidates = candidates[:maxAnnotated]
	}

	raw, err := a.backend.Annotate(ctx, buildPrompt(identifier, candidates))
	if err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}

	annotations, err := parseAnnotations(raw)
	if err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}

	// Keep only annotations for candidates we actually sent; the model
	// must not introduce identifiers of its own.
	known := make(map[string]bool, len(candidates))
	for i := range candidates {
		known[strings.ToLower(candidates[i].Identifier)] = true
	}
	kept := annotations[:0]
	for _, ann := range annotations {
		if known[strings.ToLower(ann.Identifier)] {
			kept = append(kept, ann)
		}
	}
	return kept, nil
}

func buildPrompt(identifier string, candidates []model.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, `These Telegram destinations were found while searching for %q.
For each, assess credibility (low/medium/high), sentiment of the
surrounding discussion (negative/neutral/positive), and threat
indicators (scam, impersonation, phishing, malware, none).

Respond with a JSON array only, one object per destination:
[{"identifier":"...","credibility":"...","sentiment":"...","threat_flags":["..."]}]

Destinations:
`, identifier)

	for i := range candidates {
		c := &candidates[i]
		fmt.Fprintf(&b, "- %s (%s, confidence %d)", c.Identifier, c.Kind, c.Confidence)
		for j, ref := range c.Provenance {
			if j >= 3 {
				break
			}
			if ref.Title != "" {
				fmt.Fprintf(&b, "; seen in %q", ref.Title)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
