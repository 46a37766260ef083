package search

import "sort"

// maxResults caps the number of items in one search response.
const maxResults = 80

// Merge combines per-source item lists into one response list: newest
// first, duplicates removed by identity key, truncated to maxResults.
// The returned count is the deduplicated total before truncation.
func Merge(itemLists [][]CompactItem) (items []CompactItem, count int) {
	var combined []CompactItem
	for _, list := range itemLists {
		combined = append(combined, list...)
	}

	// Stable sort keeps fan-out order for equal timestamps, so ties
	// between duplicates resolve to the earliest-listed source.
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].publishedTime().After(combined[j].publishedTime())
	})

	seen := make(map[string]bool, len(combined))
	deduped := combined[:0]
	for _, it := range combined {
		key := it.IdentityKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, it)
	}

	count = len(deduped)
	if count > maxResults {
		deduped = deduped[:maxResults]
	}
	return deduped, count
}
