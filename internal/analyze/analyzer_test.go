package analyze

import (
	"context"
	"strings"
	"testing"

	"github.com/osintlab/tgscout/internal/model"
)

type scriptedBackend struct {
	reply   string
	prompts []string
}

func (b *scriptedBackend) Name() string { return "scripted" }

func (b *scriptedBackend) Annotate(_ context.Context, prompt string) (string, error) {
	b.prompts = append(b.prompts, prompt)
	return b.reply, nil
}

func TestNewAnalyzer_DisabledByEmptyProvider(t *testing.T) {
	a, err := NewAnalyzer(model.AnalysisConfig{})
	if err != nil {
		t.Fatalf("empty provider should not error: %v", err)
	}
	if a != nil {
		t.Error("expected nil analyzer when disabled")
	}
}

func TestNewAnalyzer_UnknownProvider(t *testing.T) {
	if _, err := NewAnalyzer(model.AnalysisConfig{Provider: "palmistry"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewAnalyzer_OpenAIRequiresKey(t *testing.T) {
	if _, err := NewAnalyzer(model.AnalysisConfig{Provider: "openai"}); err == nil {
		t.Error("expected error without an API key")
	}
}

func TestParseAnnotations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{
			"bare array",
			`[{"identifier":"cryptoNewsHub","credibility":"high"}]`,
			1,
		},
		{
			"fenced json",
			"```json\n[{\"identifier\":\"cryptoNewsHub\"},{\"identifier\":\"other\"}]\n```",
			2,
		},
		{
			"chatter around the array",
			`Here is my assessment: [{"identifier":"x","threat_flags":["scam"]}] Hope that helps!`,
			1,
		},
		{
			"empty array",
			`[]`,
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAnnotations(tt.raw)
			if err != nil {
				t.Fatalf("parseAnnotations: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d annotations, want %d", len(got), tt.want)
			}
		})
	}
}

func TestParseAnnotations_Invalid(t *testing.T) {
	for _, raw := range []string{"", "no json here", `{"identifier":"notanarray"}`} {
		if _, err := parseAnnotations(raw); err == nil {
			t.Errorf("parseAnnotations(%q) should fail", raw)
		}
	}
}

func TestAnnotate_DropsUnknownIdentifiers(t *testing.T) {
	backend := &scriptedBackend{
		reply: `[{"identifier":"cryptoNewsHub","credibility":"high"},
		         {"identifier":"inventedByModel","credibility":"low"}]`,
	}
	a := &Analyzer{backend: backend}

	got, err := a.Annotate(context.Background(), "cryptoNewsHub", []model.Candidate{
		{Identifier: "cryptoNewsHub"},
	})
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if len(got) != 1 || got[0].Identifier != "cryptoNewsHub" {
		t.Errorf("hallucinated identifiers kept: %+v", got)
	}
}

func TestAnnotate_CapsCandidateCount(t *testing.T) {
	backend := &scriptedBackend{reply: `[]`}
	a := &Analyzer{backend: backend}

	candidates := make([]model.Candidate, maxAnnotated+15)
	for i := range candidates {
		candidates[i] = model.Candidate{Identifier: "chan_" + string(rune('a'+i%26))}
	}
	if _, err := a.Annotate(context.Background(), "target", candidates); err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if len(backend.prompts) != 1 {
		t.Fatalf("backend called %d times", len(backend.prompts))
	}
	// The overflow candidates never reach the prompt.
	if n := strings.Count(backend.prompts[0], "- chan_"); n != maxAnnotated {
		t.Errorf("prompt lists %d candidates, want %d", n, maxAnnotated)
	}
}

func TestAnnotate_EmptyCandidates(t *testing.T) {
	backend := &scriptedBackend{reply: `[]`}
	a := &Analyzer{backend: backend}

	got, err := a.Annotate(context.Background(), "target", nil)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil annotations, got %+v", got)
	}
	if len(backend.prompts) != 0 {
		t.Error("backend called for empty candidate list")
	}
}
