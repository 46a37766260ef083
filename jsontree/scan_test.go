package jsontree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestScanRankings_FindsNestedArray(t *testing.T) {
	// The ranking array is buried under unpredictable keys.
	root := decode(t, `{
		"state": {"page": {"props": {"data": [
			{"rank": 1, "country": "Norway", "score": 91.9},
			{"rank": 2, "country": "Denmark", "score": 89.6}
		]}}}
	}`)

	got := ScanRankings(root)
	require.Len(t, got, 2)
	assert.Equal(t, "Norway", got[0]["country"])
	assert.Equal(t, float64(1), got[0]["rank"])
}

func TestScanRankings_FindsStandaloneObject(t *testing.T) {
	root := decode(t, `{"detail": {"rank": 40, "name": "France"}}`)

	got := ScanRankings(root)
	require.Len(t, got, 1)
	assert.Equal(t, "France", got[0]["name"])
}

func TestScanRankings_RankingFieldVariant(t *testing.T) {
	root := decode(t, `{"rows": [
		{"ranking": 5, "countryName": "Japan"},
		{"ranking": 6, "countryName": "Chile"}
	]}`)

	got := ScanRankings(root)
	assert.Len(t, got, 2)
}

func TestScanRankings_MixedArrayDoesNotQualify(t *testing.T) {
	// One element lacks a rank-like field, so the array rule rejects the
	// whole array; the walk still finds the qualifying object inside.
	root := decode(t, `{"rows": [
		{"rank": 1, "country": "Kenya"},
		{"note": "header row"}
	]}`)

	got := ScanRankings(root)
	require.Len(t, got, 1)
	assert.Equal(t, "Kenya", got[0]["country"])
}

func TestScanRankings_DeduplicatesRepeats(t *testing.T) {
	// The same record reachable from two places counts once.
	root := decode(t, `{
		"a": [{"rank": 1, "country": "Ghana"}],
		"b": [{"rank": 1, "country": "Ghana"}]
	}`)

	got := ScanRankings(root)
	assert.Len(t, got, 1)
}

func TestScanRankings_UnmatchedShapeYieldsNothing(t *testing.T) {
	assert.Empty(t, ScanRankings(decode(t, `{"hello": ["world", 42]}`)))
	assert.Empty(t, ScanRankings(nil))
	assert.Empty(t, ScanRankings("just a string"))
}

func TestScanRankings_DepthBounded(t *testing.T) {
	// Build a tree deeper than the walk bound with a record at the bottom;
	// the scanner must stop quietly rather than recurse forever.
	leaf := map[string]any{"rank": 1, "country": "Peru"}
	var root any = leaf
	for i := 0; i < maxDepth+10; i++ {
		root = map[string]any{"wrap": root}
	}

	assert.Empty(t, ScanRankings(root))
}
