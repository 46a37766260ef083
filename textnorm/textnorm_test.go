package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"lowercases", "BBC World", "bbc world"},
		{"strips diacritics and punctuation", "Côte d'Ivoire!!", "cote d ivoire"},
		{"accented french", "élection générale", "election generale"},
		{"collapses whitespace", "a   b\t\nc", "a b c"},
		{"keeps digits and hyphens", "covid-19 2024", "covid-19 2024"},
		{"symbols become spaces", "U.S.A. & Canada", "u s a canada"},
		{"trims", "  nigeria  ", "nigeria"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

// Normalize must be idempotent: running it twice changes nothing.
func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Côte d'Ivoire!!",
		"Российская Федерация",
		"   mixed   CASE  éàü  ",
		"plain text",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize should be idempotent for %q", in)
	}
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"nigeria", "election"}, Tokens("Nigéria: Élection!"))
	assert.Nil(t, Tokens("  !!!  "))
	assert.Nil(t, Tokens(""))
}
