package profiles

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tailscale/hujson"

	"github.com/agoraflux/agoraflux/countries"
	"github.com/agoraflux/agoraflux/jsontree"
	"github.com/agoraflux/agoraflux/metrics"
)

// defaultRSFURL is the press-freedom ranking page that embeds its data in
// a page-rendering payload.
const defaultRSFURL = "https://rsf.org/fr/classement"

// Field names ranking records use for rank and score, in priority order.
var (
	rankValueFields  = []string{"rank", "ranking", "position", "rank_position"}
	scoreValueFields = []string{"score", "points", "note", "indice", "total"}
)

// fetchRSFRanking scrapes the ranking page and returns entries keyed by
// canonical country name. Any failure to locate or parse the embedded
// payload degrades to an empty map; only the page fetch itself can fail.
func (b *Builder) fetchRSFRanking(ctx context.Context) (map[string]RSFEntry, error) {
	html, err := b.getText(ctx, b.rsfURL)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("rsf", "error").Inc()
		return nil, fmt.Errorf("rsf fetch failed: %w", err)
	}
	metrics.UpstreamRequests.WithLabelValues("rsf", "ok").Inc()

	root := extractPagePayload(html)
	if root == nil {
		b.log.Warn("rsf page payload not found, no ranking entries extracted")
		return map[string]RSFEntry{}, nil
	}

	entries := jsontree.ScanRankings(root)
	results := make(map[string]RSFEntry, len(entries))
	for _, record := range entries {
		country, ok := countries.Resolve(record)
		if !ok {
			continue
		}
		rank := intField(record, rankValueFields)
		score := floatField(record, scoreValueFields)
		if rank == nil && score == nil {
			continue
		}
		results[country.Name] = RSFEntry{Rank: rank, Score: score}
	}

	b.log.Debug("rsf ranking extracted", "records", len(entries), "resolved", len(results))
	return results, nil
}

// extractPagePayload locates the framework state blob embedded in the
// page. The payload has moved between deployments, so several known
// carriers are tried in order: a window.__NUXT__ assignment, a
// __NEXT_DATA__ script, and finally any application/json script that
// parses to something non-trivial.
func extractPagePayload(html string) any {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var payload any
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		idx := strings.Index(text, "window.__NUXT__=")
		if idx < 0 {
			return true
		}
		expr := strings.TrimSpace(text[idx+len("window.__NUXT__="):])
		expr = strings.TrimSuffix(expr, ";")
		payload = parseJSONish(expr)
		return payload == nil
	})
	if payload != nil {
		return payload
	}

	if text := doc.Find(`script#__NEXT_DATA__`).First().Text(); text != "" {
		if payload = parseJSONish(text); payload != nil {
			return payload
		}
	}

	doc.Find(`script[type="application/json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		payload = parseJSONish(sel.Text())
		return payload == nil
	})
	return payload
}

// parseJSONish parses data that is JSON or nearly JSON (trailing commas,
// comments). It is deliberately restricted to the hujson superset: the
// upstream blob is sometimes a JavaScript object literal, but feeding it
// to any kind of expression evaluator is off the table.
func parseJSONish(s string) any {
	data := []byte(strings.TrimSpace(s))
	if len(data) == 0 {
		return nil
	}
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil
	}
	var v any
	if err := json.Unmarshal(standardized, &v); err != nil {
		return nil
	}
	return v
}

// intField extracts the first present, non-zero numeric field as an int.
func intField(record map[string]any, fields []string) *int {
	if f := floatField(record, fields); f != nil {
		v := int(*f)
		return &v
	}
	return nil
}

// floatField extracts the first present, non-zero numeric field. Numbers
// arriving as strings are converted; zero and unparseable values are
// treated as absent.
func floatField(record map[string]any, fields []string) *float64 {
	for _, field := range fields {
		raw, ok := record[field]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case float64:
			if v != 0 {
				return &v
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f != 0 {
				return &f
			}
		}
	}
	return nil
}
