// Package keywords holds the declarative classification tables: noise keyword
// categories, URL/email patterns, title veto words, stop words, and the
// persona-archetype domain vocabularies. Tables are loaded once at startup
// from YAML and are immutable afterwards, so pipeline instances with
// different tunings can coexist and share nothing mutable.
package keywords

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Tables is the compiled, read-only form of the keyword configuration.
type Tables struct {
	Version int

	Address       []string
	Instructional []string
	Disclaimer    []string

	WebsitePatterns []*regexp.Regexp

	DisallowedTitleWords []string
	StopWords            map[string]bool

	Archetypes map[string]Archetype
}

// Archetype groups the recognition terms and domain vocabulary of one
// reader-persona class.
type Archetype struct {
	Terms          []string
	DomainKeywords []string
}

type rawTables struct {
	Version    int `yaml:"version"`
	Categories struct {
		Address       []string `yaml:"address"`
		Instructional []string `yaml:"instructional"`
		Disclaimer    []string `yaml:"disclaimer"`
	} `yaml:"categories"`
	WebsitePatterns      []string `yaml:"website_patterns"`
	DisallowedTitleWords []string `yaml:"disallowed_title_words"`
	StopWords            []string `yaml:"stop_words"`
	Archetypes           map[string]struct {
		Terms          []string `yaml:"terms"`
		DomainKeywords []string `yaml:"domain_keywords"`
	} `yaml:"archetypes"`
}

// Load reads and compiles keyword tables from a YAML file. An unreadable or
// malformed file is an error; callers treat that as fatal because the
// pipeline cannot classify safely without its tables.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyword config: %w", err)
	}
	return Parse(data)
}

// Default returns the tables compiled from the embedded configuration.
func Default() *Tables {
	t, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded keyword config is invalid: %v", err))
	}
	return t
}

// Parse compiles YAML keyword configuration into immutable tables.
func Parse(data []byte) (*Tables, error) {
	var raw rawTables
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse keyword config: %w", err)
	}
	if len(raw.Categories.Address) == 0 && len(raw.Categories.Instructional) == 0 &&
		len(raw.Categories.Disclaimer) == 0 {
		return nil, fmt.Errorf("keyword config defines no categories")
	}

	t := &Tables{
		Version:              raw.Version,
		Address:              lowerAll(raw.Categories.Address),
		Instructional:        lowerAll(raw.Categories.Instructional),
		Disclaimer:           lowerAll(raw.Categories.Disclaimer),
		DisallowedTitleWords: lowerAll(raw.DisallowedTitleWords),
		StopWords:            make(map[string]bool, len(raw.StopWords)),
		Archetypes:           make(map[string]Archetype, len(raw.Archetypes)),
	}
	for _, w := range raw.StopWords {
		t.StopWords[strings.ToLower(w)] = true
	}
	for i, pat := range raw.WebsitePatterns {
		re, err := regexp.Compile("(?i)" + pat)
		if err != nil {
			return nil, fmt.Errorf("website pattern %d (%q): %w", i, pat, err)
		}
		t.WebsitePatterns = append(t.WebsitePatterns, re)
	}
	for name, a := range raw.Archetypes {
		t.Archetypes[strings.ToLower(name)] = Archetype{
			Terms:          lowerAll(a.Terms),
			DomainKeywords: lowerAll(a.DomainKeywords),
		}
	}
	return t, nil
}

// DomainKeywords returns the domain vocabulary for an archetype name, or nil.
func (t *Tables) DomainKeywords(archetype string) []string {
	return t.Archetypes[strings.ToLower(archetype)].DomainKeywords
}

// ClassifyPersona maps a free-text persona description onto the archetype
// whose recognition terms it mentions. Falls back to "general".
func (t *Tables) ClassifyPersona(persona string) string {
	lower := strings.ToLower(persona)
	// Stable preference order so ambiguous personas classify deterministically.
	for _, name := range []string{"researcher", "analyst", "student", "manager", "engineer"} {
		a, ok := t.Archetypes[name]
		if !ok {
			continue
		}
		for _, term := range a.Terms {
			if strings.Contains(lower, term) {
				return name
			}
		}
	}
	return "general"
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
