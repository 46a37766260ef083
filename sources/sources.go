// Package sources holds the static registry of RSS feeds the search
// endpoint can query. The list is fixed at startup and never mutated.
package sources

import "strings"

// Source represents one external feed contributing items to search results.
type Source struct {
	Key              string `json:"key" yaml:"key"`
	Name             string `json:"name" yaml:"name"`
	URL              string `json:"url" yaml:"url"`
	EnabledByDefault bool   `json:"enabledByDefault" yaml:"enabledByDefault"`
}

// defaults is the built-in source list.
var defaults = []Source{
	{Key: "bbc_world", Name: "BBC World", URL: "https://feeds.bbci.co.uk/news/world/rss.xml", EnabledByDefault: true},
	{Key: "bbc_sci", Name: "BBC Science", URL: "https://feeds.bbci.co.uk/news/science_and_environment/rss.xml", EnabledByDefault: true},
	{Key: "guardian_world", Name: "The Guardian World", URL: "https://www.theguardian.com/world/rss", EnabledByDefault: true},
	{Key: "guardian_tech", Name: "The Guardian Technology", URL: "https://www.theguardian.com/uk/technology/rss", EnabledByDefault: true},
	{Key: "france24_en", Name: "France24 (EN)", URL: "https://www.france24.com/en/rss", EnabledByDefault: true},
	{Key: "france24_fr", Name: "France24 (FR)", URL: "https://www.france24.com/fr/rss", EnabledByDefault: true},
	{Key: "aljazeera", Name: "Al Jazeera", URL: "https://www.aljazeera.com/xml/rss/all.xml", EnabledByDefault: true},
	{Key: "npr", Name: "NPR News", URL: "https://www.npr.org/rss/rss.php?id=1001", EnabledByDefault: true},
	{Key: "nasa", Name: "NASA Breaking News", URL: "https://www.nasa.gov/rss/dyn/breaking_news.rss", EnabledByDefault: true},
	{Key: "lemonde", Name: "Le Monde — À la une", URL: "https://www.lemonde.fr/rss/une.xml", EnabledByDefault: true},
	{Key: "dw", Name: "DW — World", URL: "https://rss.dw.com/rdf/rss-en-all", EnabledByDefault: true},
	{Key: "cbc_world", Name: "CBC — World", URL: "https://www.cbc.ca/cmlink/rss-world", EnabledByDefault: true},
}

// Registry is an immutable set of sources keyed for selection.
type Registry struct {
	list []Source
}

// NewRegistry builds a registry from the built-in source list plus any
// extra sources (typically from the config file). An extra whose key
// collides with a built-in source replaces it.
func NewRegistry(extras ...Source) *Registry {
	list := make([]Source, 0, len(defaults)+len(extras))
	index := make(map[string]int, len(defaults)+len(extras))
	for _, s := range defaults {
		index[s.Key] = len(list)
		list = append(list, s)
	}
	for _, s := range extras {
		if s.Key == "" || s.URL == "" {
			continue
		}
		if i, ok := index[s.Key]; ok {
			list[i] = s
			continue
		}
		index[s.Key] = len(list)
		list = append(list, s)
	}
	return &Registry{list: list}
}

// All returns every registered source.
func (r *Registry) All() []Source {
	out := make([]Source, len(r.list))
	copy(out, r.list)
	return out
}

// Select resolves requested source keys to sources. An empty list, or one
// containing "all", selects every source; that is the documented default
// for requests omitting the sources parameter. Unknown keys are ignored,
// so a selection made only of unknown keys comes back empty and the
// caller should reject the request.
func (r *Registry) Select(keys []string) []Source {
	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if strings.EqualFold(k, "all") {
			return r.All()
		}
		wanted[k] = true
	}
	if len(wanted) == 0 {
		return r.All()
	}

	var out []Source
	for _, s := range r.list {
		if wanted[s.Key] {
			out = append(out, s)
		}
	}
	return out
}
