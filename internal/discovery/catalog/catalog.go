// Package catalog loads the discovery source catalog from a YAML file.
package catalog

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// KindHTML marks a source scraped as a plain HTML listing page. The only
// kind today; the field exists so API-backed directories can be added
// without changing the file format.
const KindHTML = "html"

const queryPlaceholder = "{query}"

// Source describes one place to look for candidate client websites.
type Source struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	// URL is a template; an optional {query} placeholder is replaced with
	// the escaped search query at run time.
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
	Enabled  bool   `yaml:"enabled"`
	// MaxResults caps how many candidates a single run takes from this
	// source. Zero means the run-level limit applies alone.
	MaxResults int `yaml:"maxResults"`
	// RatePerMinute is the source's request budget. Zero uses the
	// scraper's default limit.
	RatePerMinute int `yaml:"ratePerMinute"`
}

// BuildURL substitutes the search query into the source's URL template.
// Sources without a placeholder ignore the query.
func (s Source) BuildURL(query string) string {
	if !strings.Contains(s.URL, queryPlaceholder) {
		return s.URL
	}
	return strings.ReplaceAll(s.URL, queryPlaceholder, url.QueryEscape(query))
}

// Catalog is the full set of configured discovery sources.
type Catalog struct {
	Sources []Source `yaml:"sources"`
}

// Load reads and validates a source catalog from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog from YAML bytes. Sources without a kind default
// to html.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse source catalog: %w", err)
	}
	for i, src := range cat.Sources {
		if src.Name == "" {
			return nil, fmt.Errorf("source catalog: entry %d has no name", i)
		}
		if src.URL == "" {
			return nil, fmt.Errorf("source catalog: source %q has no url", src.Name)
		}
		if src.Kind == "" {
			cat.Sources[i].Kind = KindHTML
		} else if src.Kind != KindHTML {
			return nil, fmt.Errorf("source catalog: source %q has unknown kind %q", src.Name, src.Kind)
		}
		if src.RatePerMinute < 0 {
			return nil, fmt.Errorf("source catalog: source %q has a negative rate", src.Name)
		}
	}
	return &cat, nil
}

// Enabled returns only the sources that are switched on.
func (c *Catalog) Enabled() []Source {
	var out []Source
	for _, src := range c.Sources {
		if src.Enabled {
			out = append(out, src)
		}
	}
	return out
}

// ByName looks a source up by its catalog name.
func (c *Catalog) ByName(name string) (Source, bool) {
	for _, src := range c.Sources {
		if src.Name == name {
			return src, true
		}
	}
	return Source{}, false
}
