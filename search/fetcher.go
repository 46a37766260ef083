// Package search implements the multi-source news search pipeline:
// concurrent fan-out over the configured feeds, token matching against a
// normalized haystack, and merge/dedup of the per-source results.
package search

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mmcdole/gofeed"

	"github.com/agoraflux/agoraflux/metrics"
	"github.com/agoraflux/agoraflux/sources"
)

// defaultFetchTimeout caps a single feed fetch. A timed-out source is
// treated identically to any other per-source failure.
const defaultFetchTimeout = 15 * time.Second

// ErrAllSourcesFailed signals that every selected source failed and no
// item matched, which is distinct from a successful search with zero
// matches.
var ErrAllSourcesFailed = errors.New("all selected sources failed")

// Warning describes one source's failure inside an otherwise successful
// search response.
type Warning struct {
	SourceKey  string `json:"sourceKey"`
	SourceName string `json:"sourceName"`
	Error      string `json:"error"`
}

// Result is the outcome of one search: merged items, the deduplicated
// match count before truncation, and per-source warnings.
type Result struct {
	Items    []CompactItem
	Count    int
	Warnings []Warning
}

// Fetcher fans a query out over feed sources concurrently. Failure of one
// source never aborts the others: every source settles, successes
// contribute items and failures contribute warnings.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	log     *log.Logger
}

// NewFetcher creates a fetcher using the given HTTP client for feed
// requests. A zero timeout selects the default per-source timeout.
func NewFetcher(client *http.Client, timeout time.Duration, logger *log.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Fetcher{client: client, timeout: timeout, log: logger}
}

// Search fetches every selected source concurrently, keeps the items
// matching the query, and merges them newest-first with duplicates
// removed. It returns ErrAllSourcesFailed only when every source failed
// and nothing matched; partial failures come back as warnings alongside
// the surviving items.
func (f *Fetcher) Search(ctx context.Context, srcs []sources.Source, query string, mode Mode) (*Result, error) {
	matcher := NewMatcher(query, mode)

	perSource := make([][]CompactItem, len(srcs))
	errs := make([]error, len(srcs))

	var wg sync.WaitGroup
	for i, src := range srcs {
		wg.Add(1)
		go func(i int, src sources.Source) {
			defer wg.Done()
			perSource[i], errs[i] = f.fetchSource(ctx, src, matcher)
		}(i, src)
	}
	wg.Wait()

	var warnings []Warning
	for i, err := range errs {
		if err == nil {
			continue
		}
		warnings = append(warnings, Warning{
			SourceKey:  srcs[i].Key,
			SourceName: srcs[i].Name,
			Error:      err.Error(),
		})
	}

	items, count := Merge(perSource)
	if count == 0 && len(warnings) == len(srcs) && len(srcs) > 0 {
		return &Result{Warnings: warnings}, ErrAllSourcesFailed
	}

	return &Result{Items: items, Count: count, Warnings: warnings}, nil
}

// fetchSource fetches and filters one feed under the per-source timeout.
func (f *Fetcher) fetchSource(ctx context.Context, src sources.Source, matcher *Matcher) ([]CompactItem, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	// gofeed parsers are cheap and not safe for concurrent use, so each
	// fetch gets its own.
	fp := gofeed.NewParser()
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(src.URL, fetchCtx)
	if err != nil {
		metrics.FeedFetches.WithLabelValues(src.Key, "error").Inc()
		f.log.Warn("feed fetch failed", "source", src.Key, "url", src.URL, "err", err)
		return nil, err
	}

	var matched []CompactItem
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		if matcher.Matches(it.Title, it.Description, it.Content) {
			matched = append(matched, compactFeedItem(it, src))
		}
	}

	metrics.FeedFetches.WithLabelValues(src.Key, "ok").Inc()
	f.log.Debug("feed fetched", "source", src.Key, "matched", len(matched), "total", len(feed.Items))
	return matched, nil
}
