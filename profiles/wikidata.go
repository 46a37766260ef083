package profiles

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/agoraflux/agoraflux/countries"
)

// defaultWikidataURL is the public SPARQL endpoint.
const defaultWikidataURL = "https://query.wikidata.org/sparql"

// facts holds the structured per-country facts Wikidata returns.
type facts struct {
	HeadOfState  *string
	RulingParty  *string
	NextElection *string
	IsDemocracy  *bool
}

// sparqlQuery builds one batched query covering every country in the
// closed list: head of state (P35), ruling party (P3078), the nearest
// future election (P585 on elections held in the country), and whether
// the form of government descends from democracy (Q7174).
func sparqlQuery() string {
	codes := make([]string, 0, len(countries.List))
	for _, e := range countries.List {
		codes = append(codes, fmt.Sprintf("%q", e.ISO2))
	}
	return fmt.Sprintf(`
SELECT ?iso2
  (SAMPLE(?headOfStateLabel) AS ?headOfState)
  (SAMPLE(?rulingPartyLabel) AS ?rulingParty)
  (MIN(?electionDate) AS ?nextElection)
  (SAMPLE(?isDemocracy) AS ?isDemocracy)
WHERE {
  VALUES ?iso2 { %s }
  ?country wdt:P297 ?iso2 .
  OPTIONAL { ?country wdt:P35 ?headOfState . }
  OPTIONAL { ?country wdt:P3078 ?rulingParty . }
  OPTIONAL {
    ?election wdt:P31/wdt:P279* wd:Q40231 ;
      wdt:P17 ?country ;
      wdt:P585 ?electionDate .
    FILTER(?electionDate >= NOW())
  }
  BIND(EXISTS { ?country wdt:P122 ?govType . ?govType wdt:P279* wd:Q7174 } AS ?isDemocracy)
  SERVICE wikibase:label { bd:serviceParam wikibase:language "fr,en". }
}
GROUP BY ?iso2`, strings.Join(codes, " "))
}

// sparqlResponse matches the SPARQL JSON results format: each binding is
// a map from variable name to a typed value cell.
type sparqlResponse struct {
	Results struct {
		Bindings []map[string]struct {
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// fetchWikidataFacts runs the batched SPARQL query and returns facts
// keyed by ISO code. Bindings without an ISO code are skipped.
func (b *Builder) fetchWikidataFacts(ctx context.Context) (map[string]facts, error) {
	data, err := b.do(ctx, http.MethodPost, b.wikidataURL,
		"application/sparql-query", "application/sparql-results+json", sparqlQuery())
	if err != nil {
		return nil, fmt.Errorf("wikidata query failed: %w", err)
	}

	var resp sparqlResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode wikidata response: %w", err)
	}

	out := make(map[string]facts, len(resp.Results.Bindings))
	for _, row := range resp.Results.Bindings {
		iso2 := row["iso2"].Value
		if iso2 == "" {
			continue
		}
		f := facts{
			HeadOfState:  bindingString(row, "headOfState"),
			RulingParty:  bindingString(row, "rulingParty"),
			NextElection: bindingString(row, "nextElection"),
		}
		if cell, ok := row["isDemocracy"]; ok {
			democracy := cell.Value == "true"
			f.IsDemocracy = &democracy
		}
		out[iso2] = f
	}
	return out, nil
}

func bindingString(row map[string]struct {
	Value string `json:"value"`
}, name string) *string {
	cell, ok := row[name]
	if !ok || cell.Value == "" {
		return nil
	}
	v := cell.Value
	return &v
}
