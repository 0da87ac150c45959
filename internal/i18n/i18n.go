// Package i18n serves the storefront string tables and renders localized messages.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FallbackLanguage is consulted when a key is missing in the requested language.
const FallbackLanguage = "en"

//go:embed locales/*.yaml
var localeFS embed.FS

// Catalog holds one flat key/value table per language.
type Catalog struct {
	tables map[string]map[string]string
}

// Load parses the embedded locale files.
func Load() (*Catalog, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locales: %w", err)
	}

	c := &Catalog{tables: make(map[string]map[string]string, len(entries))}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".yaml" {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		table := map[string]string{}
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		c.tables[strings.TrimSuffix(name, ".yaml")] = table
	}

	if _, ok := c.tables[FallbackLanguage]; !ok {
		return nil, fmt.Errorf("missing %s locale", FallbackLanguage)
	}

	return c, nil
}

// MustLoad is Load that panics on error. The embedded catalogs are fixed at build time,
// so callers that already trust them (tests, fixtures) can skip the error check.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Languages lists the available language codes, sorted.
func (c *Catalog) Languages() []string {
	langs := make([]string, 0, len(c.tables))
	for lang := range c.tables {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Supported reports whether lang has a table.
func (c *Catalog) Supported(lang string) bool {
	_, ok := c.tables[lang]
	return ok
}

// Resolve returns lang when supported, else def when supported, else FallbackLanguage.
func (c *Catalog) Resolve(lang, def string) string {
	switch {
	case c.Supported(lang):
		return lang
	case c.Supported(def):
		return def
	default:
		return FallbackLanguage
	}
}

// Messages returns a copy of the table for lang with fallback keys filled in.
func (c *Catalog) Messages(lang string) (map[string]string, bool) {
	table, ok := c.tables[lang]
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(c.tables[FallbackLanguage]))
	for k, v := range c.tables[FallbackLanguage] {
		out[k] = v
	}
	for k, v := range table {
		out[k] = v
	}
	return out, true
}

// T looks key up in lang, then in English, then returns the key itself.
// Every "{name}" occurrence is replaced by params[name].
func (c *Catalog) T(lang, key string, params map[string]any) string {
	text, ok := c.tables[lang][key]
	if !ok || text == "" {
		text, ok = c.tables[FallbackLanguage][key]
	}
	if !ok || text == "" {
		text = key
	}
	for name, value := range params {
		text = strings.ReplaceAll(text, "{"+name+"}", fmt.Sprint(value))
	}
	return text
}
