// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// FeedFetches counts per-source feed fetch outcomes ("ok" or "error").
	FeedFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agoraflux_feed_fetches_total",
		Help: "Feed fetch attempts by source and outcome.",
	}, []string{"source", "outcome"})

	// SnapshotReads counts country-profile cache reads by tier
	// ("memory", "file", "rebuild").
	SnapshotReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agoraflux_snapshot_reads_total",
		Help: "Country-profile snapshot reads by serving tier.",
	}, []string{"tier"})

	// SnapshotRebuildSeconds tracks how long full snapshot rebuilds take.
	SnapshotRebuildSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "agoraflux_snapshot_rebuild_seconds",
		Help:    "Duration of country-profile snapshot rebuilds.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	// UpstreamRequests counts calls to the open-data upstreams
	// ("wikidata", "worldbank", "rsf") by outcome.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agoraflux_upstream_requests_total",
		Help: "Requests to open-data upstreams by provider and outcome.",
	}, []string{"provider", "outcome"})
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
