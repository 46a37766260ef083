// Package profiles builds denormalized country profiles from three
// open-data sources (Wikidata facts, World Bank indicators, the RSF
// press-freedom ranking) and serves them from a TTL-bounded snapshot
// cache.
package profiles

import "time"

// Ratings holds the 1–5 quality-of-life ratings derived from World Bank
// indicators. A nil field means the underlying indicator had no data and
// no fallback was available.
type Ratings struct {
	Security *int `json:"security"`
	Health   *int `json:"health"`
	Business *int `json:"business"`
	Expat    *int `json:"expat"`
	Overall  *int `json:"overall"`
}

// RawIndicators preserves the unscaled World Bank values a profile's
// ratings were derived from.
type RawIndicators struct {
	Security *float64 `json:"security"`
	Business *float64 `json:"business"`
	Expat    *float64 `json:"expat"`
	Health   *float64 `json:"health"`
}

// FactFlags records which Wikidata facts were actually present.
type FactFlags struct {
	HeadOfState  bool `json:"headOfState"`
	RulingParty  bool `json:"rulingParty"`
	NextElection bool `json:"nextElection"`
}

// RSFEntry is a country's press-freedom rank and score. Either field may
// be absent when the scraped page did not carry it.
type RSFEntry struct {
	Rank  *int     `json:"rank"`
	Score *float64 `json:"score"`
}

// Provenance records what each upstream contributed to a profile.
type Provenance struct {
	WorldBank RawIndicators `json:"worldBank"`
	Wikidata  FactFlags     `json:"wikidata"`
	RSF       RSFEntry      `json:"rsf"`
}

// Profile is one country's denormalized record. Optional fields are
// pointers: present means the source supplied a value, nil means absent.
// Values are never guessed.
type Profile struct {
	Country      string    `json:"country"`
	ISO2         string    `json:"iso2"`
	HeadOfState  *string   `json:"headOfState"`
	RulingParty  *string   `json:"rulingParty"`
	NextElection *string   `json:"nextElection"`
	IsDemocracy  *bool     `json:"isDemocracy"`
	RSFRank      *int      `json:"rsfRank"`
	RSFScore     *float64  `json:"rsfScore"`
	Ratings      Ratings   `json:"ratings"`
	Sources      Provenance `json:"sources"`
}

// SourceURLs lists the upstream endpoints a snapshot was built from.
type SourceURLs struct {
	Wikidata  string `json:"wikidata"`
	WorldBank string `json:"worldBank"`
	RSF       string `json:"rsf"`
}

// Snapshot is one complete generation of the country-profile cache. It is
// created whole, replaced whole, and never mutated after publication.
type Snapshot struct {
	UpdatedAt time.Time          `json:"updatedAt"`
	Profiles  map[string]Profile `json:"profiles"`
	Sources   SourceURLs         `json:"sources"`
}
