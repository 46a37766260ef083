// Package jsontree walks decoded JSON payloads of unknown shape looking
// for ranking records. The upstream ranking page embeds its data inside a
// page-rendering payload whose layout changes between deployments, so the
// scanner never assumes which key holds the records and degrades to "no
// entries found" when the shape does not match.
package jsontree

import "encoding/json"

// Walk bounds. A malformed or adversarial payload stops the walk early
// instead of doing unbounded work; a truncated walk simply yields fewer
// records.
const (
	maxDepth = 64
	maxNodes = 200000
)

// rank-like and name-like field names that qualify an object as a
// ranking record.
var (
	rankFields = []string{"rank", "ranking"}
	nameFields = []string{"country", "country_name", "name", "countryName"}
)

// ScanRankings walks root depth-first and collects every object that
// looks like a ranking record: either an object carrying a rank-like
// field alongside a name-like field, or any element of an array whose
// every element carries a rank-like field. Exact structural repeats are
// deduplicated. The result is empty, never an error, when nothing
// qualifies.
func ScanRankings(root any) []map[string]any {
	s := &scanner{seen: make(map[string]bool)}
	s.walk(root, 0)
	return s.matches
}

type scanner struct {
	matches []map[string]any
	seen    map[string]bool
	nodes   int
}

func (s *scanner) walk(value any, depth int) {
	if depth > maxDepth || s.nodes > maxNodes {
		return
	}
	s.nodes++

	switch v := value.(type) {
	case []any:
		if len(v) > 0 && allRankLike(v) {
			for _, el := range v {
				if obj, ok := el.(map[string]any); ok {
					s.collect(obj)
				}
			}
		}
		for _, el := range v {
			s.walk(el, depth+1)
		}
	case map[string]any:
		if hasAnyField(v, rankFields) && hasAnyField(v, nameFields) {
			s.collect(v)
		}
		for _, el := range v {
			s.walk(el, depth+1)
		}
	}
}

// collect records obj unless an identical structure was already seen.
// Canonical re-marshaling is the dedup key; objects that fail to marshal
// are kept as-is.
func (s *scanner) collect(obj map[string]any) {
	key, err := json.Marshal(obj)
	if err == nil {
		if s.seen[string(key)] {
			return
		}
		s.seen[string(key)] = true
	}
	s.matches = append(s.matches, obj)
}

func allRankLike(arr []any) bool {
	for _, el := range arr {
		obj, ok := el.(map[string]any)
		if !ok {
			return false
		}
		if !hasAnyField(obj, rankFields) {
			return false
		}
	}
	return true
}

func hasAnyField(obj map[string]any, fields []string) bool {
	for _, f := range fields {
		if _, ok := obj[f]; ok {
			return true
		}
	}
	return false
}
