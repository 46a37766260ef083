package profiles

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/agoraflux/agoraflux/countries"
)

// ErrAllUpstreamsFailed signals that none of the three data sources
// produced anything, so there is no snapshot worth publishing.
var ErrAllUpstreamsFailed = errors.New("all profile upstreams failed")

// defaultRateLimit throttles World Bank indicator lookups.
const defaultRateLimit = rate.Limit(20)

// BuilderConfig configures a Builder. Zero values select production
// defaults; the URLs exist mainly so tests can point the builder at
// local fixtures.
type BuilderConfig struct {
	Client       *http.Client
	Logger       *log.Logger
	WikidataURL  string
	WorldBankURL string
	RSFURL       string
	RateLimit    rate.Limit
}

// Builder assembles one country-profile snapshot by querying the three
// upstreams concurrently.
type Builder struct {
	client       *http.Client
	log          *log.Logger
	limiter      *rate.Limiter
	wikidataURL  string
	worldBankURL string
	rsfURL       string
}

// NewBuilder creates a builder with the given configuration.
func NewBuilder(cfg BuilderConfig) *Builder {
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.WikidataURL == "" {
		cfg.WikidataURL = defaultWikidataURL
	}
	if cfg.WorldBankURL == "" {
		cfg.WorldBankURL = defaultWorldBankURL
	}
	if cfg.RSFURL == "" {
		cfg.RSFURL = defaultRSFURL
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}
	burst := int(cfg.RateLimit)
	if burst < 1 {
		// Fractional rates still need one token of burst or Wait
		// can never succeed.
		burst = 1
	}
	return &Builder{
		client:       cfg.Client,
		log:          cfg.Logger,
		limiter:      rate.NewLimiter(cfg.RateLimit, burst),
		wikidataURL:  cfg.WikidataURL,
		worldBankURL: cfg.WorldBankURL,
		rsfURL:       cfg.RSFURL,
	}
}

// Build fetches the three sources concurrently and assembles one profile
// per country in the closed list. A failed source contributes an empty
// partial and a logged warning rather than aborting the build; only all
// three failing is an error. Every country in the universe gets a
// profile record even when no source contributed anything for it.
func (b *Builder) Build(ctx context.Context) (*Snapshot, error) {
	var (
		wikidataFacts map[string]facts
		worldBank     map[string]countryRatings
		rsfRanking    map[string]RSFEntry
		errFacts      error
		errWB         error
		errRSF        error
	)

	done := make(chan struct{}, 3)
	go func() {
		wikidataFacts, errFacts = b.fetchWikidataFacts(ctx)
		done <- struct{}{}
	}()
	go func() {
		worldBank, errWB = b.fetchWorldBankRatings(ctx)
		done <- struct{}{}
	}()
	go func() {
		rsfRanking, errRSF = b.fetchRSFRanking(ctx)
		done <- struct{}{}
	}()
	for i := 0; i < 3; i++ {
		<-done
	}

	failures := 0
	for _, e := range []struct {
		name string
		err  error
	}{{"wikidata", errFacts}, {"worldbank", errWB}, {"rsf", errRSF}} {
		if e.err != nil {
			failures++
			b.log.Warn("profile source failed", "source", e.name, "err", e.err)
		}
	}
	if failures == 3 {
		return nil, ErrAllUpstreamsFailed
	}

	snapshot := &Snapshot{
		UpdatedAt: time.Now().UTC(),
		Profiles:  make(map[string]Profile, len(countries.List)),
		Sources: SourceURLs{
			Wikidata:  b.wikidataURL,
			WorldBank: b.worldBankURL,
			RSF:       b.rsfURL,
		},
	}

	for _, entry := range countries.List {
		f := wikidataFacts[entry.ISO2]
		wb := worldBank[entry.ISO2]
		rsf := rsfRanking[entry.Name]

		snapshot.Profiles[entry.Name] = Profile{
			Country:      entry.Name,
			ISO2:         entry.ISO2,
			HeadOfState:  f.HeadOfState,
			RulingParty:  f.RulingParty,
			NextElection: f.NextElection,
			IsDemocracy:  f.IsDemocracy,
			RSFRank:      rsf.Rank,
			RSFScore:     rsf.Score,
			Ratings:      wb.Ratings,
			Sources: Provenance{
				WorldBank: wb.Raw,
				Wikidata: FactFlags{
					HeadOfState:  f.HeadOfState != nil,
					RulingParty:  f.RulingParty != nil,
					NextElection: f.NextElection != nil,
				},
				RSF: rsf,
			},
		}
	}

	return snapshot, nil
}
