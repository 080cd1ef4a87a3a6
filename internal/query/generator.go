// Package query builds search query batches and username variations for
// a target identifier.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/osintlab/tgscout/internal/model"
)

const (
	minVariationLen = 3
	maxVariationLen = 35
)

// Fixed phrase templates for the pattern phase. %s is the identifier.
var patternTemplates = []string{
	`"%s" telegram`,
	`"@%s"`,
	`%s telegram channel`,
	`%s telegram group`,
	`t.me/%s`,
	`telegram.me/%s`,
	`site:t.me %s`,
	`%s telegram link`,
}

// Contextual/cross-platform phrasings for the contextual phase.
var contextualTemplates = []string{
	`%s official telegram`,
	`join %s telegram`,
	`%s announcements channel`,
	`%s community chat telegram`,
	`reddit %s telegram`,
	`twitter %s t.me`,
}

// Affixes tried with and without separators during variation generation.
var (
	variationPrefixes = []string{"official", "real", "the", "team"}
	variationSuffixes = []string{"official", "real", "main", "bot", "channel", "group", "news", "chat", "hq"}
	separators        = []string{"_", ".", "-", ""}
)

// Generator produces query batches and identifier variations.
type Generator struct {
	maxVariations int
}

// NewGenerator creates a generator. maxVariations caps the variation set;
// values below 1 fall back to the default of 100.
func NewGenerator(maxVariations int) *Generator {
	if maxVariations < 1 {
		maxVariations = 100
	}
	return &Generator{maxVariations: maxVariations}
}

// Queries returns the ordered query batch for one phase. The order is
// fixed so runs over identical inputs issue identical request sequences.
func (g *Generator) Queries(identifier string, phase model.Phase) []string {
	switch phase {
	case model.PhasePattern:
		return expand(patternTemplates, identifier)
	case model.PhaseContextual:
		return expand(contextualTemplates, identifier)
	case model.PhaseVariation:
		var queries []string
		for _, v := range g.Variations(identifier) {
			queries = append(queries, "t.me/"+v)
		}
		return queries
	default:
		return nil
	}
}

// Phases returns the configured phases in execution order.
func Phases() []model.Phase {
	return []model.Phase{model.PhasePattern, model.PhaseVariation, model.PhaseContextual}
}

// Variations returns a bounded, deterministic set of mutated identifiers:
// case variants, separator insertion/removal, numeric suffixes 0-20,
// affix vocabulary, and truncations. The original identifier is excluded.
func (g *Generator) Variations(identifier string) []string {
	seen := make(map[string]bool)
	var out []string

	add := func(v string) {
		if len(v) < minVariationLen || len(v) > maxVariationLen {
			return
		}
		if v == identifier || seen[v] {
			return
		}
		seen[v] = true
		out = append(out, v)
	}

	// Case variants
	add(strings.ToLower(identifier))
	add(strings.ToUpper(identifier))
	add(capitalize(identifier))

	// Separator removal, then re-insertion at every boundary
	stripped := strings.Map(func(r rune) rune {
		if r == '_' || r == '-' || r == '.' {
			return -1
		}
		return r
	}, identifier)
	add(stripped)
	for i := 1; i < len(stripped); i++ {
		for _, sep := range []string{"_", ".", "-"} {
			add(stripped[:i] + sep + stripped[i:])
		}
	}

	// Numeric suffix sweep: append, or replace a trailing run of digits
	base := strings.TrimRight(identifier, "0123456789")
	for n := 0; n <= 20; n++ {
		add(fmt.Sprintf("%s%d", identifier, n))
		if base != identifier {
			add(fmt.Sprintf("%s%d", base, n))
		}
	}

	// Affix vocabulary
	for _, sep := range separators {
		for _, p := range variationPrefixes {
			add(p + sep + identifier)
		}
		for _, s := range variationSuffixes {
			add(identifier + sep + s)
		}
	}

	// Truncations from len-3 up to len-1
	for cut := 3; cut >= 1; cut-- {
		if len(identifier)-cut >= minVariationLen {
			add(identifier[:len(identifier)-cut])
		}
	}

	// Deterministic order before truncation so the cap always keeps the
	// same subset across runs.
	sort.Strings(out)
	if len(out) > g.maxVariations {
		out = out[:g.maxVariations]
	}
	return out
}

func expand(templates []string, identifier string) []string {
	queries := make([]string, 0, len(templates))
	for _, t := range templates {
		queries = append(queries, fmt.Sprintf(t, identifier))
	}
	return queries
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
