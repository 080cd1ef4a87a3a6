package dedupe

import (
	"testing"
	"time"

	"github.com/osintlab/tgscout/internal/model"
)

func TestKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://t.me/cryptoNewsHub", "t.me/cryptonewshub"},
		{"http://www.t.me/cryptoNewsHub/", "t.me/cryptonewshub"},
		{"T.ME/CryptoNewsHub", "t.me/cryptonewshub"},
		{"  https://t.me/x/  ", "t.me/x"},
	}
	for _, tt := range tests {
		if got := Key(tt.in); got != tt.want {
			t.Errorf("Key(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMerge_SameDestination(t *testing.T) {
	// Two hits carrying the same destination collapse into one candidate
	// with both provenance entries.
	in := []model.Candidate{
		{
			Identifier: "cryptoNewsHub",
			URL:        "https://t.me/cryptoNewsHub",
			Provenance: []model.SourceRef{{Source: model.SourceGoogle, Query: "q1"}},
		},
		{
			Identifier: "cryptoNewsHub",
			URL:        "http://www.t.me/cryptoNewsHub/",
			Provenance: []model.SourceRef{{Source: model.SourceReddit, Query: "q2"}},
		},
	}

	got := Merge(in)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if len(got[0].Provenance) != 2 {
		t.Fatalf("expected 2 provenance entries, got %d", len(got[0].Provenance))
	}
	if got[0].Provenance[0].Source != model.SourceGoogle || got[0].Provenance[1].Source != model.SourceReddit {
		t.Errorf("provenance order lost: %+v", got[0].Provenance)
	}
}

func TestMerge_ProvenanceAccumulates(t *testing.T) {
	// Merging a candidate with m entries into one with n entries yields
	// exactly m+n entries, regardless of which side wins.
	tests := []struct {
		name  string
		confA int
		confB int
	}{
		{"existing wins", 80, 40},
		{"new wins", 40, 80},
		{"tie keeps earlier", 50, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := []model.Candidate{
				{
					Identifier: "newsdesk",
					URL:        "https://t.me/newsdesk",
					Confidence: tt.confA,
					Provenance: []model.SourceRef{{Source: model.SourceGoogle}, {Source: model.SourceBing}},
				},
				{
					Identifier: "newsdesk",
					URL:        "https://t.me/newsdesk",
					Confidence: tt.confB,
					Provenance: []model.SourceRef{{Source: model.SourceReddit}},
				},
			}
			got := Merge(in)
			if len(got) != 1 {
				t.Fatalf("expected 1 candidate, got %d", len(got))
			}
			if len(got[0].Provenance) != 3 {
				t.Errorf("expected 3 provenance entries, got %d", len(got[0].Provenance))
			}
			wantConf := tt.confA
			if tt.confB > tt.confA {
				wantConf = tt.confB
			}
			if got[0].Confidence != wantConf {
				t.Errorf("confidence = %d, want %d", got[0].Confidence, wantConf)
			}
		})
	}
}

func TestMerge_DistinctDestinationsKept(t *testing.T) {
	in := []model.Candidate{
		{Identifier: "alpha", URL: "https://t.me/alpha", Provenance: []model.SourceRef{{Source: model.SourceGoogle}}},
		{Identifier: "beta", URL: "https://t.me/beta", Provenance: []model.SourceRef{{Source: model.SourceGoogle}}},
	}
	got := Merge(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].Identifier != "alpha" || got[1].Identifier != "beta" {
		t.Errorf("first-seen order lost: %+v", got)
	}
}

func TestMerge_EarliestFirstSeen(t *testing.T) {
	early := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	in := []model.Candidate{
		{URL: "https://t.me/x1234", FirstSeen: &late, Provenance: []model.SourceRef{{Source: model.SourceGoogle}}},
		{URL: "https://t.me/x1234", FirstSeen: &early, Provenance: []model.SourceRef{{Source: model.SourceBing}}},
	}
	got := Merge(in)
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].FirstSeen == nil || !got[0].FirstSeen.Equal(early) {
		t.Errorf("FirstSeen = %v, want %v", got[0].FirstSeen, early)
	}
}

func TestMerge_KindUpgrade(t *testing.T) {
	in := []model.Candidate{
		{URL: "https://t.me/x1234", Kind: model.KindUnknown, Provenance: []model.SourceRef{{Source: model.SourceGoogle}}},
		{URL: "https://t.me/x1234", Kind: model.KindChannel, Provenance: []model.SourceRef{{Source: model.SourceBing}}},
	}
	got := Merge(in)
	if got[0].Kind != model.KindChannel {
		t.Errorf("kind = %s, want channel", got[0].Kind)
	}
}

func TestMerge_BestPatternPriorityKept(t *testing.T) {
	in := []model.Candidate{
		{URL: "https://t.me/x1234", PatternPriority: 2, Provenance: []model.SourceRef{{Source: model.SourceGoogle}}},
		{URL: "https://t.me/x1234", PatternPriority: 0, Confidence: 10, Provenance: []model.SourceRef{{Source: model.SourceBing}}},
	}
	got := Merge(in)
	if got[0].PatternPriority != 0 {
		t.Errorf("pattern priority = %d, want 0", got[0].PatternPriority)
	}
}
