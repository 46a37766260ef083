package search

import (
	"strings"

	"github.com/agoraflux/agoraflux/textnorm"
)

// Mode selects how query tokens combine: disjunctive (any token may
// match) or conjunctive (all tokens must match).
type Mode int

const (
	MatchAny Mode = iota
	MatchAll
)

// ParseMode maps a query-string value onto a Mode. The default is
// disjunctive matching.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return MatchAll
	}
	return MatchAny
}

// tokenTranslations is a fixed bilingual table widening recall between
// French and English queries. Each pair is registered in both directions.
var tokenTranslations = map[string]string{}

func init() {
	pairs := [][2]string{
		{"afrique", "africa"},
		{"asie", "asia"},
		{"oceanie", "oceania"},
		{"amerique", "america"},
		{"australie", "australia"},
		{"chine", "china"},
		{"japon", "japan"},
		{"coree", "korea"},
		{"allemagne", "germany"},
		{"angleterre", "england"},
		{"nigeria", "nigéria"},
		{"etats", "states"},
		{"etats-unis", "united"},
	}
	for _, p := range pairs {
		tokenTranslations[p[0]] = p[1]
		tokenTranslations[p[1]] = p[0]
	}
}

// Matcher decides whether a feed item matches a query. It is built once
// per request and reused for every item. Each query token becomes a group
// of alternatives (the token plus its bilingual counterpart, if any); a
// group is satisfied when any alternative appears in the item text. The
// expansion therefore widens recall without requiring both languages.
type Matcher struct {
	mode   Mode
	groups [][]string
}

// NewMatcher normalizes and tokenizes the query and expands each token
// via the bilingual table. A blank query yields a matcher that accepts
// everything.
func NewMatcher(query string, mode Mode) *Matcher {
	tokens := textnorm.Tokens(query)
	groups := make([][]string, 0, len(tokens))
	for _, t := range tokens {
		group := []string{t}
		if mapped, ok := tokenTranslations[t]; ok {
			if alt := textnorm.Normalize(mapped); alt != "" && alt != t {
				group = append(group, alt)
			}
		}
		groups = append(groups, group)
	}
	return &Matcher{mode: mode, groups: groups}
}

// Matches reports whether the item text (title, snippet, content fields
// concatenated) satisfies the query. Matching is substring containment
// over normalized text, not word-boundary matching: corpora are small
// enough that a token matching inside a longer word is acceptable.
func (m *Matcher) Matches(fields ...string) bool {
	if len(m.groups) == 0 {
		return true
	}
	hay := textnorm.Normalize(strings.Join(fields, " "))

	if m.mode == MatchAll {
		for _, group := range m.groups {
			if !containsAny(hay, group) {
				return false
			}
		}
		return true
	}

	for _, group := range m.groups {
		if containsAny(hay, group) {
			return true
		}
	}
	return false
}

func containsAny(hay string, alternatives []string) bool {
	for _, alt := range alternatives {
		if strings.Contains(hay, alt) {
			return true
		}
	}
	return false
}
