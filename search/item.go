package search

import (
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/agoraflux/agoraflux/sources"
)

// maxSnippetLen bounds the snippet carried in a search response item.
const maxSnippetLen = 320

// CompactItem is the normalized record returned by the search endpoint.
// PubDate is an ISO 8601 string when the feed provided a parseable date,
// the feed's raw date string otherwise, and empty when absent.
type CompactItem struct {
	SourceKey  string `json:"sourceKey"`
	SourceName string `json:"sourceName"`
	Title      string `json:"title"`
	Link       string `json:"link"`
	PubDate    string `json:"pubDate"`
	Snippet    string `json:"snippet"`
}

// IdentityKey is the string used to detect duplicates across sources: the
// link when present, otherwise source name plus title.
func (it CompactItem) IdentityKey() string {
	if it.Link != "" {
		return it.Link
	}
	return it.SourceName + it.Title
}

// publishedTime parses the item's date for sorting. Missing or
// unparseable dates sort as the epoch origin, which places them last in
// the newest-first merge order.
func (it CompactItem) publishedTime() time.Time {
	if it.PubDate == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822} {
		if ts, err := time.Parse(layout, it.PubDate); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// compactFeedItem converts a parsed feed entry into the response shape.
func compactFeedItem(it *gofeed.Item, src sources.Source) CompactItem {
	pubDate := it.Published
	if it.PublishedParsed != nil {
		pubDate = it.PublishedParsed.Format(time.RFC3339)
	} else if it.UpdatedParsed != nil {
		pubDate = it.UpdatedParsed.Format(time.RFC3339)
	}

	snippet := it.Description
	if snippet == "" {
		snippet = it.Content
	}
	if runes := []rune(snippet); len(runes) > maxSnippetLen {
		snippet = string(runes[:maxSnippetLen])
	}

	return CompactItem{
		SourceKey:  src.Key,
		SourceName: src.Name,
		Title:      it.Title,
		Link:       it.Link,
		PubDate:    pubDate,
		Snippet:    snippet,
	}
}
