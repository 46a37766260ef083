package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMode(t *testing.T) {
	assert.Equal(t, MatchAll, ParseMode("all"))
	assert.Equal(t, MatchAll, ParseMode(" ALL "))
	assert.Equal(t, MatchAny, ParseMode("any"))
	assert.Equal(t, MatchAny, ParseMode(""))
}

func TestMatcher_BlankQueryMatchesEverything(t *testing.T) {
	for _, mode := range []Mode{MatchAny, MatchAll} {
		m := NewMatcher("   !!! ", mode)
		assert.True(t, m.Matches("anything at all"))
		assert.True(t, m.Matches(""))
	}
}

func TestMatcher_AllMode(t *testing.T) {
	m := NewMatcher("nigeria results", MatchAll)
	assert.True(t, m.Matches("Nigeria election results"), "both tokens present")
	assert.False(t, m.Matches("Nigeria senate vote"), "second token absent")

	// Substring containment, not word-boundary matching.
	m = NewMatcher("elect", MatchAll)
	assert.True(t, m.Matches("general election coverage"))
}

func TestMatcher_AnyMode(t *testing.T) {
	m := NewMatcher("nigeria senate", MatchAny)
	assert.True(t, m.Matches("Nigeria election results"), "first token present")
	assert.False(t, m.Matches("french budget debate"))
}

func TestMatcher_BilingualExpansion(t *testing.T) {
	// "afrique" must also match items that only say "africa".
	m := NewMatcher("afrique", MatchAny)
	assert.True(t, m.Matches("West Africa summit opens"))
	assert.True(t, m.Matches("Sommet de l'Afrique de l'Ouest"))

	// In ALL mode the translation satisfies its own token's group; it is
	// never required on top of the original token.
	m = NewMatcher("afrique summit", MatchAll)
	assert.True(t, m.Matches("West Africa summit opens"))
	assert.False(t, m.Matches("West Africa trade talks"), "summit token missing")
}

func TestMatcher_MatchesAcrossFields(t *testing.T) {
	m := NewMatcher("budget", MatchAny)
	assert.True(t, m.Matches("Headline", "a snippet about the budget", ""))
	assert.False(t, m.Matches("Headline", "unrelated snippet", ""))
}

func TestMatcher_NormalizesBothSides(t *testing.T) {
	m := NewMatcher("CÔTE", MatchAny)
	assert.True(t, m.Matches("La cote d'Ivoire vote"))
}
