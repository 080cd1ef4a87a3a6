package extract

import (
	"testing"

	"github.com/osintlab/tgscout/internal/model"
)

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"cryptoNewsHub", true},
		{"crypto_hub_42", true},
		{"abcde", true},
		{"abcd", false},                 // too short
		{"a234567890123456789012345678901", true},
		{"a2345678901234567890123456789012", true}, // 32 chars
		{"a23456789012345678901234567890123", false},
		{"1crypto", false},    // digit start
		{"_crypto", false},    // underscore start
		{"crypto_", false},    // trailing underscore
		{"crypto-hub", false}, // dash not allowed
		{"telegram", false},   // reserved
		{"Channel", false},    // reserved, case-insensitive
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidIdentifier(tt.in); got != tt.want {
			t.Errorf("IsValidIdentifier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsValidIdentifier_Idempotent(t *testing.T) {
	// Validation discards, never corrects: a valid identifier run through
	// validation again must still be valid, unchanged.
	for _, id := range []string{"cryptoNewsHub", "news_desk_7", "abcde"} {
		if !IsValidIdentifier(id) {
			t.Fatalf("%q should be valid", id)
		}
		if !IsValidIdentifier(id) {
			t.Errorf("%q changed validity on second pass", id)
		}
	}
}

func TestExtract_CanonicalLink(t *testing.T) {
	e := NewExtractor()
	hit := model.RawHit{
		Source: model.SourceGoogle,
		Title:  "Crypto News Hub - Official Telegram",
		Body:   "Join our group t.me/cryptoNewsHub_Official for updates",
		URL:    "https://example.com/post/1",
	}

	got := e.Extract(hit, "cryptoNewsHub")
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %+v", len(got), got)
	}
	c := got[0]
	if c.Identifier != "cryptoNewsHub_Official" {
		t.Errorf("identifier = %q, want cryptoNewsHub_Official", c.Identifier)
	}
	if c.Kind != model.KindGroup {
		t.Errorf("kind = %s, want group", c.Kind)
	}
	if c.URL != "https://t.me/cryptoNewsHub_Official" {
		t.Errorf("url = %q", c.URL)
	}
	if len(c.Provenance) != 1 || c.Provenance[0].Source != model.SourceGoogle {
		t.Errorf("provenance = %+v", c.Provenance)
	}
}

func TestExtract_PatternSpecificity(t *testing.T) {
	// The same identifier appearing as both a canonical link and a bare
	// mention keeps the canonical link's priority.
	e := NewExtractor()
	hit := model.RawHit{
		Source: model.SourceBing,
		Body:   "Follow @newsdesk or visit https://t.me/newsdesk directly",
	}

	got := e.Extract(hit, "newsdesk")
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].PatternPriority != 0 {
		t.Errorf("pattern priority = %d, want 0 (canonical-link)", got[0].PatternPriority)
	}
}

func TestExtract_InviteLinkVerbatim(t *testing.T) {
	e := NewExtractor()
	hit := model.RawHit{
		Source: model.SourceReddit,
		Body:   "private chat here: t.me/+AbC123_xYz-9012",
	}

	got := e.Extract(hit, "whatever")
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	c := got[0]
	if c.Kind != model.KindInvite {
		t.Errorf("kind = %s, want invite", c.Kind)
	}
	if c.Identifier != "AbC123_xYz-9012" {
		t.Errorf("invite token altered: %q", c.Identifier)
	}
	if c.URL != "https://t.me/+AbC123_xYz-9012" {
		t.Errorf("url = %q", c.URL)
	}
}

func TestExtract_ObfuscatedLink(t *testing.T) {
	e := NewExtractor()
	tests := []string{
		"find us at t dot me slash newsdesk",
		"t(dot)me/newsdesk",
		"t . me/newsdesk",
	}
	for _, body := range tests {
		got := e.Extract(model.RawHit{Source: model.SourceBing, Body: body}, "newsdesk")
		if len(got) != 1 {
			t.Errorf("body %q: expected 1 candidate, got %d", body, len(got))
			continue
		}
		if got[0].Identifier != "newsdesk" {
			t.Errorf("body %q: identifier = %q", body, got[0].Identifier)
		}
	}
}

func TestExtract_StoplistRejected(t *testing.T) {
	e := NewExtractor()
	hit := model.RawHit{
		Source: model.SourceGoogle,
		Body:   "see t.me/telegram and t.me/joinchat pages",
	}
	if got := e.Extract(hit, "anything"); len(got) != 0 {
		t.Errorf("stoplist identifiers leaked through: %+v", got)
	}
}

func TestExtract_InvalidDiscardedNotCorrected(t *testing.T) {
	e := NewExtractor()
	// Trailing underscore and too-short handles must be dropped, not trimmed.
	hit := model.RawHit{
		Source: model.SourceGoogle,
		Body:   "broken links @bad_ and @abc here",
	}
	if got := e.Extract(hit, "anything"); len(got) != 0 {
		t.Errorf("invalid identifiers should be discarded, got %+v", got)
	}
}

func TestExtract_InferencePass(t *testing.T) {
	e := NewExtractor()
	// No explicit link pattern, but telegram-flavored text naming a handle
	// related to the target.
	hit := model.RawHit{
		Source: model.SourceReddit,
		Title:  "Anyone know the cryptoNewsHub telegram?",
		Body:   "I think cryptoNewsHubHQ is the one everyone uses",
	}

	got := e.Extract(hit, "cryptoNewsHub")
	var found *model.Candidate
	for i := range got {
		if got[i].Identifier == "cryptoNewsHubHQ" {
			found = &got[i]
		}
	}
	if found == nil {
		t.Fatalf("inference pass missed cryptoNewsHubHQ: %+v", got)
	}
	if found.Kind != model.KindInferred {
		t.Errorf("kind = %s, want inferred", found.Kind)
	}
	if found.PatternPriority != inferredPriority {
		t.Errorf("priority = %d, want %d", found.PatternPriority, inferredPriority)
	}
}

func TestExtract_InferenceRequiresTelegramContext(t *testing.T) {
	e := NewExtractor()
	hit := model.RawHit{
		Source: model.SourceReddit,
		Body:   "cryptoNewsHubHQ posted something on their website",
	}
	if got := e.Extract(hit, "cryptoNewsHub"); len(got) != 0 {
		t.Errorf("inference ran without telegram context: %+v", got)
	}
}

func TestExtract_ExplicitPatternOutranksInference(t *testing.T) {
	e := NewExtractor()
	hit := model.RawHit{
		Source: model.SourceGoogle,
		Body:   "telegram channel t.me/cryptoNewsHub and also cryptoNewsHub mentioned again",
	}

	got := e.Extract(hit, "cryptoNewsHub")
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].PatternPriority != 0 {
		t.Errorf("explicit extraction lost to inference: priority %d", got[0].PatternPriority)
	}
	if got[0].Kind == model.KindInferred {
		t.Error("kind downgraded to inferred despite explicit match")
	}
}

func TestExtract_BotSuffixKind(t *testing.T) {
	e := NewExtractor()
	hit := model.RawHit{
		Source: model.SourceGoogle,
		Body:   "automated alerts via t.me/cryptoAlertBot",
	}
	got := e.Extract(hit, "cryptoAlert")
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].Kind != model.KindBot {
		t.Errorf("kind = %s, want bot", got[0].Kind)
	}
}
