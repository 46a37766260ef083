package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/agoraflux/agoraflux/countries"
	"github.com/agoraflux/agoraflux/metrics"
)

// defaultWorldBankURL is the World Bank API base.
const defaultWorldBankURL = "https://api.worldbank.org/v2"

// World Bank indicator codes backing each rating dimension. The first
// three are governance percentile ranks (0–100); health is life
// expectancy at birth in years.
const (
	indicatorSecurity = "PV.PER.RNK"
	indicatorBusiness = "GE.PER.RNK"
	indicatorExpat    = "RL.PER.RNK"
	indicatorHealth   = "SP.DYN.LE00.IN"
)

// countryRatings couples the derived 1–5 ratings with the raw indicator
// values they came from.
type countryRatings struct {
	Ratings Ratings
	Raw     RawIndicators
}

// fetchWorldBankRatings fans out over the country × indicator product.
// Every cell is independently tolerant of missing data: a failed or
// empty lookup leaves that raw value nil. Requests are throttled by the
// builder's rate limiter so thirty countries times four indicators do
// not hammer the API.
func (b *Builder) fetchWorldBankRatings(ctx context.Context) (map[string]countryRatings, error) {
	results := make(map[string]countryRatings, len(countries.List))
	var mu sync.Mutex
	var wg sync.WaitGroup
	var okCalls atomic.Int64

	for _, entry := range countries.List {
		wg.Add(1)
		go func(entry countries.Entry) {
			defer wg.Done()

			raw := RawIndicators{
				Security: b.fetchIndicator(ctx, entry.ISO2, indicatorSecurity, &okCalls),
				Business: b.fetchIndicator(ctx, entry.ISO2, indicatorBusiness, &okCalls),
				Expat:    b.fetchIndicator(ctx, entry.ISO2, indicatorExpat, &okCalls),
				Health:   b.fetchIndicator(ctx, entry.ISO2, indicatorHealth, &okCalls),
			}

			security := ratingFromPercentile(raw.Security)
			business := ratingFromPercentile(raw.Business)
			expat := ratingFromPercentile(raw.Expat)
			health := ratingFromLifeExpectancy(raw.Health)
			overall := averageRating(security, business, expat, health)

			mu.Lock()
			results[entry.ISO2] = countryRatings{
				Ratings: Ratings{
					Security: orFallback(security, overall),
					Business: orFallback(business, overall),
					Expat:    orFallback(expat, overall),
					Health:   orFallback(health, overall),
					Overall:  overall,
				},
				Raw: raw,
			}
			mu.Unlock()
		}(entry)
	}
	wg.Wait()

	// Individual cells are allowed to miss, but when not a single
	// lookup succeeded the whole source is down.
	if okCalls.Load() == 0 {
		return nil, errors.New("worldbank: every indicator lookup failed")
	}

	return results, nil
}

// indicatorPoint is one data point in a World Bank series. The API
// response is a two-element array of [metadata, data points].
type indicatorPoint struct {
	Value *float64 `json:"value"`
}

// fetchIndicator returns the most recent non-null value of one indicator
// for one country, or nil when the API has no data or the call fails.
// Successful calls, with or without data, bump okCalls.
func (b *Builder) fetchIndicator(ctx context.Context, iso2, indicator string, okCalls *atomic.Int64) *float64 {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil
	}

	url := fmt.Sprintf("%s/country/%s/indicator/%s?format=json", b.worldBankURL, iso2, indicator)

	var payload []json.RawMessage
	if err := b.getJSON(ctx, url, &payload); err != nil {
		metrics.UpstreamRequests.WithLabelValues("worldbank", "error").Inc()
		b.log.Warn("worldbank lookup failed", "iso2", iso2, "indicator", indicator, "err", err)
		return nil
	}
	okCalls.Add(1)
	metrics.UpstreamRequests.WithLabelValues("worldbank", "ok").Inc()

	if len(payload) < 2 {
		return nil
	}
	var series []indicatorPoint
	if err := json.Unmarshal(payload[1], &series); err != nil {
		return nil
	}
	// Points are ordered newest first; take the first that has data.
	for _, point := range series {
		if point.Value != nil {
			return point.Value
		}
	}
	return nil
}
