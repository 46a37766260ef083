// Package countries defines the closed universe of countries the profile
// builder covers, and resolves loosely-structured records onto it.
package countries

import (
	"strings"

	"github.com/agoraflux/agoraflux/textnorm"
)

// Entry is one canonical country identity.
type Entry struct {
	Name string `json:"name"`
	ISO2 string `json:"iso2"`
}

// List is the fixed universe of valid countries. Profiles are built for
// exactly these entries; records resolving outside the list are dropped.
var List = []Entry{
	{Name: "Nigeria", ISO2: "NG"},
	{Name: "South Africa", ISO2: "ZA"},
	{Name: "Kenya", ISO2: "KE"},
	{Name: "Egypt", ISO2: "EG"},
	{Name: "Morocco", ISO2: "MA"},
	{Name: "Ghana", ISO2: "GH"},
	{Name: "Senegal", ISO2: "SN"},
	{Name: "United States", ISO2: "US"},
	{Name: "Canada", ISO2: "CA"},
	{Name: "Mexico", ISO2: "MX"},
	{Name: "Brazil", ISO2: "BR"},
	{Name: "Argentina", ISO2: "AR"},
	{Name: "Colombia", ISO2: "CO"},
	{Name: "Chile", ISO2: "CL"},
	{Name: "Peru", ISO2: "PE"},
	{Name: "China", ISO2: "CN"},
	{Name: "India", ISO2: "IN"},
	{Name: "Japan", ISO2: "JP"},
	{Name: "South Korea", ISO2: "KR"},
	{Name: "Indonesia", ISO2: "ID"},
	{Name: "Pakistan", ISO2: "PK"},
	{Name: "France", ISO2: "FR"},
	{Name: "Germany", ISO2: "DE"},
	{Name: "United Kingdom", ISO2: "GB"},
	{Name: "Italy", ISO2: "IT"},
	{Name: "Spain", ISO2: "ES"},
	{Name: "Ukraine", ISO2: "UA"},
	{Name: "Russia", ISO2: "RU"},
	{Name: "Australia", ISO2: "AU"},
	{Name: "New Zealand", ISO2: "NZ"},
}

// aliases maps normalized official or alternate country names onto the
// canonical name. Aliases may target names outside List; such targets
// still fail resolution against the closed universe.
var aliases = map[string]string{
	"united states of america":                             "United States",
	"russian federation":                                   "Russia",
	"korea republic of":                                    "South Korea",
	"republic of korea":                                    "South Korea",
	"iran":                                                 "Iran",
	"korea democratic people s republic of":                "North Korea",
	"cote d ivoire":                                        "Cote d'Ivoire",
	"united kingdom of great britain and northern ireland": "United Kingdom",
	"syrian arab republic":                                 "Syria",
	"venezuela bolivarian republic of":                     "Venezuela",
	"bolivia plurinational state of":                       "Bolivia",
	"tanzania united republic of":                          "Tanzania",
	"viet nam":                                             "Vietnam",
	"lao people s democratic republic":                     "Laos",
	"republic of moldova":                                  "Moldova",
	"brunei darussalam":                                    "Brunei",
	"czechia":                                              "Czech Republic",
	"macao":                                                "Macau",
	"hong kong":                                            "Hong Kong",
	"micronesia":                                           "Micronesia",
	"greenland":                                            "Greenland",
}

var (
	byISO  = map[string]Entry{}
	byNorm = map[string]Entry{}
)

func init() {
	for _, e := range List {
		byISO[e.ISO2] = e
		byNorm[textnorm.Normalize(e.Name)] = e
	}
}

// ByISO looks up an entry by its ISO 3166-1 alpha-2 code,
// case-insensitively.
func ByISO(code string) (Entry, bool) {
	e, ok := byISO[strings.ToUpper(strings.TrimSpace(code))]
	return e, ok
}

// ByName resolves a free-text country name: first through the alias
// table, then by normalized exact match against canonical names. There
// is no fuzzy matching.
func ByName(name string) (Entry, bool) {
	normalized := textnorm.Normalize(name)
	if normalized == "" {
		return Entry{}, false
	}
	if canonical, ok := aliases[normalized]; ok {
		normalized = textnorm.Normalize(canonical)
	}
	e, ok := byNorm[normalized]
	return e, ok
}

// Field names scanned records use for country codes and names, in
// priority order.
var (
	isoFields  = []string{"iso2", "iso", "code", "country_code", "countryCode"}
	nameFields = []string{"country", "country_name", "name", "countryName"}
)

// Resolve maps a loosely-typed record onto a canonical country: by ISO
// code when the record carries one, otherwise by alias or normalized
// name. Records that resolve nowhere return ok=false and are expected to
// be dropped silently, never invented.
func Resolve(record map[string]any) (Entry, bool) {
	for _, field := range isoFields {
		if s, ok := stringValue(record[field]); ok {
			if e, found := ByISO(s); found {
				return e, true
			}
			break
		}
	}
	for _, field := range nameFields {
		if s, ok := stringValue(record[field]); ok {
			return ByName(s)
		}
	}
	return Entry{}, false
}

func stringValue(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
