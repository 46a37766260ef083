// Package textnorm provides the text folding used everywhere two strings
// are compared: query tokens against feed items, and country names against
// the canonical country list. Both sides of any comparison go through
// Normalize, so casing, accents, and punctuation never cause a false
// negative.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and removes combining marks, so "é"
// becomes "e" and "ç" becomes "c".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// Normalize lower-cases s, strips diacritics, replaces every character
// outside [a-z0-9\s-] with a space, collapses whitespace runs, and trims.
// It is pure and total: it never fails, and the empty string maps to the
// empty string. Normalize is idempotent.
func Normalize(s string) string {
	s = strings.ToLower(s)

	folded, _, err := transform.String(stripMarks, s)
	if err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		keep := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
		if keep {
			b.WriteRune(r)
			prevSpace = false
			continue
		}
		// Everything else, whitespace included, collapses to one space.
		if !prevSpace {
			b.WriteByte(' ')
			prevSpace = true
		}
	}

	return strings.TrimSpace(b.String())
}

// Tokens normalizes s and splits it on whitespace, dropping empty tokens.
func Tokens(s string) []string {
	n := Normalize(s)
	if n == "" {
		return nil
	}
	return strings.Fields(n)
}
