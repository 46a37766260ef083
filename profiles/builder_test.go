package profiles

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agoraflux/agoraflux/countries"
)

// sparqlFixture answers any SPARQL request with bindings for France.
func sparqlFixture(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "expected POST", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/sparql-results+json")
		fmt.Fprint(w, `{"results":{"bindings":[
			{"iso2":{"value":"FR"},
			 "headOfState":{"value":"Emmanuel Macron"},
			 "nextElection":{"value":"2027-04-09T00:00:00Z"},
			 "isDemocracy":{"value":"true"}},
			{"iso2":{"value":"RU"},
			 "isDemocracy":{"value":"false"}}
		]}}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// worldBankFixture serves a governance percentile of 100 and a life
// expectancy of 85 for France, and no data for everyone else.
func worldBankFixture(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/country/FR/indicator/SP.DYN.LE00.IN"):
			fmt.Fprint(w, `[{"page":1},[{"value":null},{"value":85}]]`)
		case strings.Contains(r.URL.Path, "/country/FR/"):
			fmt.Fprint(w, `[{"page":1},[{"value":100}]]`)
		default:
			fmt.Fprint(w, `[{"page":1},[]]`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func rsfFixture(t *testing.T) *httptest.Server {
	return pageServer(t, `<html><script id="__NEXT_DATA__" type="application/json">
{"props":{"ranking":[{"rank":21,"country":"France","score":78.7}]}}
</script></html>`)
}

func failingFixture(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBuild_AssemblesProfiles(t *testing.T) {
	b := NewBuilder(BuilderConfig{
		WikidataURL:  sparqlFixture(t).URL,
		WorldBankURL: worldBankFixture(t).URL,
		RSFURL:       rsfFixture(t).URL,
		RateLimit:    1000,
	})

	snap, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Profiles, len(countries.List), "outer join covers the whole universe")

	fr := snap.Profiles["France"]
	require.NotNil(t, fr.HeadOfState)
	assert.Equal(t, "Emmanuel Macron", *fr.HeadOfState)
	assert.Nil(t, fr.RulingParty, "absent facts stay absent")
	require.NotNil(t, fr.IsDemocracy)
	assert.True(t, *fr.IsDemocracy)

	require.NotNil(t, fr.RSFRank)
	assert.Equal(t, 21, *fr.RSFRank)

	// Percentile 100 → 5; life expectancy 85 → 5; overall mean 5.
	require.NotNil(t, fr.Ratings.Security)
	assert.Equal(t, 5, *fr.Ratings.Security)
	require.NotNil(t, fr.Ratings.Health)
	assert.Equal(t, 5, *fr.Ratings.Health)
	require.NotNil(t, fr.Ratings.Overall)
	assert.Equal(t, 5, *fr.Ratings.Overall)

	// Raw indicator values are preserved as provenance.
	require.NotNil(t, fr.Sources.WorldBank.Security)
	assert.Equal(t, float64(100), *fr.Sources.WorldBank.Security)
	assert.True(t, fr.Sources.Wikidata.HeadOfState)
	assert.False(t, fr.Sources.Wikidata.RulingParty)

	ru := snap.Profiles["Russia"]
	require.NotNil(t, ru.IsDemocracy)
	assert.False(t, *ru.IsDemocracy)
	assert.Nil(t, ru.HeadOfState)

	// A country no source mentioned still gets a profile with every
	// field absent.
	ke, ok := snap.Profiles["Kenya"]
	require.True(t, ok)
	assert.Nil(t, ke.HeadOfState)
	assert.Nil(t, ke.Ratings.Overall)
	assert.Nil(t, ke.RSFRank)
}

func TestBuild_SingleSourceFailureTolerated(t *testing.T) {
	b := NewBuilder(BuilderConfig{
		WikidataURL:  failingFixture(t).URL,
		WorldBankURL: worldBankFixture(t).URL,
		RSFURL:       rsfFixture(t).URL,
		RateLimit:    1000,
	})

	snap, err := b.Build(context.Background())
	require.NoError(t, err, "one failed source never aborts the build")

	fr := snap.Profiles["France"]
	assert.Nil(t, fr.HeadOfState, "failed source contributes nothing")
	require.NotNil(t, fr.RSFRank, "surviving sources still contribute")
}

func TestBuild_AllSourcesFailed(t *testing.T) {
	down := failingFixture(t)
	b := NewBuilder(BuilderConfig{
		WikidataURL:  down.URL,
		WorldBankURL: down.URL,
		RSFURL:       down.URL,
		RateLimit:    1000,
	})

	_, err := b.Build(context.Background())
	assert.ErrorIs(t, err, ErrAllUpstreamsFailed)
}

func TestNewBuilder_FractionalRateStillAdmitsCalls(t *testing.T) {
	b := NewBuilder(BuilderConfig{
		WorldBankURL: worldBankFixture(t).URL,
		RateLimit:    0.5,
	})
	require.Equal(t, 1, b.limiter.Burst(), "a sub-1 rate must not truncate burst to zero")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var okCalls atomic.Int64
	v := b.fetchIndicator(ctx, "FR", indicatorExpat, &okCalls)
	require.NotNil(t, v, "throttling must slow calls down, not reject them")
	assert.Equal(t, 100.0, *v)
	assert.Equal(t, int64(1), okCalls.Load())
}
