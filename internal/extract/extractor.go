// Package extract scans free text for identifier-bearing Telegram links
// using an ordered pattern set, from most to least specific.
package extract

import (
	"regexp"
	"strings"

	"github.com/osintlab/tgscout/internal/model"
	"github.com/osintlab/tgscout/internal/util"
)

// Pattern is one extraction rule. Position in the pattern table is the
// priority: earlier patterns are more specific and earn a larger scoring
// bonus later.
type Pattern struct {
	Name     string
	Priority int
	Kind     model.Kind
	re       *regexp.Regexp
}

const handleBody = `[A-Za-z][A-Za-z0-9_]{3,31}`

// patternTable is processed in order; the first pattern to claim an
// identifier within a hit wins.
var patternTable = []Pattern{
	{
		Name: "canonical-link",
		Kind: model.KindUnknown,
		re:   regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?t(?:elegram)?\.me/(` + handleBody + `)\b`),
	},
	{
		Name: "invite-link",
		Kind: model.KindInvite,
		re:   regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?t(?:elegram)?\.me/(?:joinchat/|\+)([A-Za-z0-9_-]{10,})`),
	},
	{
		Name: "mention",
		Kind: model.KindUnknown,
		re:   regexp.MustCompile(`(?:^|[^@\w])@(` + handleBody + `)\b`),
	},
	{
		Name: "obfuscated-link",
		Kind: model.KindUnknown,
		re: regexp.MustCompile(`(?i)\bt\s*(?:\.\s+|\s+\.\s*|\(dot\)|\[dot\]|\s+dot\s+)\s*me\s*(?:/|\s+slash\s+)\s*@?(` + handleBody + `)\b`),
	},
	{
		Name: "contextual",
		Kind: model.KindUnknown,
		re:   regexp.MustCompile(`(?i)(?:channel|group|chat|join)\s*[:\-]?\s+@?(` + handleBody + `)\b`),
	},
}

// inferredPriority ranks below every explicit pattern.
var inferredPriority = len(patternTable)

// Reserved and common words that are never valid identifiers.
var stoplist = map[string]bool{
	"telegram": true, "channel": true, "channels": true, "group": true,
	"groups": true, "admin": true, "support": true, "news": true,
	"official": true, "joinchat": true, "share": true, "addstickers": true,
	"proxy": true, "socks": true, "contact": true, "username": true,
	"download": true, "update": true, "updates": true, "public": true,
	"private": true, "invite": true,
}

var telegramContext = []string{"telegram", "t.me", "tg channel", "tg group"}

var tokenRe = regexp.MustCompile(`\b[A-Za-z][A-Za-z0-9_]{4,31}\b`)

func init() {
	for i := range patternTable {
		patternTable[i].Priority = i
	}
}

// IsValidIdentifier reports whether s is a plausible public handle:
// 5-32 chars, letter start, alphanumeric+underscore body, no trailing
// underscore, not a reserved word. Invalid extractions are discarded,
// never corrected.
func IsValidIdentifier(s string) bool {
	if len(s) < 5 || len(s) > 32 {
		return false
	}
	if !isLetter(s[0]) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isLetter(c) && !isDigit(c) && c != '_' {
			return false
		}
	}
	if s[len(s)-1] == '_' {
		return false
	}
	return !stoplist[strings.ToLower(s)]
}

// Extractor applies the pattern table and the context inference pass.
type Extractor struct {
	patterns []Pattern
}

// NewExtractor creates an extractor with the standard pattern table.
func NewExtractor() *Extractor {
	return &Extractor{patterns: patternTable}
}

// Patterns exposes the ordered pattern table for scoring lookups.
func (e *Extractor) Patterns() []Pattern {
	return e.patterns
}

// Extract scans one hit's title, body, and URL and returns candidate
// drafts. The identifier argument is the original search target; it
// drives the inference pass only, never the explicit patterns.
func (e *Extractor) Extract(hit model.RawHit, identifier string) []model.Candidate {
	text := hit.Title + "\n" + hit.Body + "\n" + hit.URL

	// One candidate per extracted identifier per hit: the most specific
	// pattern to see it wins.
	byID := make(map[string]*model.Candidate)
	var order []string

	claim := func(id string, p Pattern) {
		key := strings.ToLower(id)
		if existing, ok := byID[key]; ok {
			if p.Priority < existing.PatternPriority {
				existing.PatternPriority = p.Priority
				if p.Kind != model.KindUnknown {
					existing.Kind = p.Kind
				}
			}
			return
		}
		c := &model.Candidate{
			Identifier:      id,
			Kind:            p.Kind,
			PatternPriority: p.Priority,
			Provenance:      []model.SourceRef{hit.Ref()},
			FirstSeen:       hit.CreatedAt,
		}
		byID[key] = c
		order = append(order, key)
	}

	for _, p := range e.patterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			id := m[1]
			if p.Kind == model.KindInvite {
				// Opaque token, kept verbatim
				claim(id, p)
				continue
			}
			if IsValidIdentifier(id) {
				claim(id, p)
			}
		}
	}

	// Inference pass: telegram-flavored text that plausibly discusses the
	// target may carry handles the explicit patterns missed.
	if mentionsTelegram(text) && flexibleMatch(text, identifier) {
		inferred := Pattern{Name: "inferred", Priority: inferredPriority, Kind: model.KindInferred}
		for _, tok := range tokenRe.FindAllString(text, -1) {
			if !IsValidIdentifier(tok) {
				continue
			}
			if !relatedIdentifier(tok, identifier) {
				continue
			}
			claim(tok, inferred)
		}
	}

	out := make([]model.Candidate, 0, len(order))
	for _, key := range order {
		c := byID[key]
		finalize(c, text)
		out = append(out, *c)
	}
	return out
}

// finalize fills in the destination URL and refines the kind from
// surrounding text.
func finalize(c *model.Candidate, text string) {
	if c.Kind == model.KindInvite {
		c.URL = "https://t.me/+" + c.Identifier
		return
	}
	c.URL = "https://t.me/" + c.Identifier

	lower := strings.ToLower(text)
	switch {
	case strings.HasSuffix(strings.ToLower(c.Identifier), "bot"):
		c.Kind = model.KindBot
	case c.Kind == model.KindInferred:
		// Keep the inferred marker so scoring can penalize it
	case strings.Contains(lower, "group") || strings.Contains(lower, "chat"):
		c.Kind = model.KindGroup
	case strings.Contains(lower, "channel"):
		c.Kind = model.KindChannel
	default:
		c.Kind = model.KindUnknown
	}
}

func mentionsTelegram(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range telegramContext {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// flexibleMatch reports whether text plausibly refers to the target
// identifier: substring, @-prefixed, /-prefixed, word boundary, or a
// small edit-distance tolerance on individual tokens.
func flexibleMatch(text, identifier string) bool {
	if identifier == "" {
		return false
	}
	lower := strings.ToLower(text)
	id := strings.ToLower(identifier)

	if strings.Contains(lower, id) ||
		strings.Contains(lower, "@"+id) ||
		strings.Contains(lower, "/"+id) {
		return true
	}

	for _, tok := range tokenRe.FindAllString(lower, -1) {
		if util.Levenshtein(tok, id) <= 2 {
			return true
		}
	}
	return false
}

// relatedIdentifier keeps the inference pass on-target: the token must
// contain the search identifier, or sit within edit distance 2 of it.
// Bare fragments of the identifier do not qualify.
func relatedIdentifier(token, identifier string) bool {
	if identifier == "" {
		return false
	}
	tok := strings.ToLower(token)
	id := strings.ToLower(identifier)
	if strings.Contains(tok, id) {
		return true
	}
	return util.Levenshtein(tok, id) <= 2
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
