// Package i18n provides localized message lookup for the admin UI and
// the audit log. It is a renderer only; catalog contents are declared
// in code at startup.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Catalog maps message keys to format strings per language.
type Catalog struct {
	fallback language.Tag
	tags     []language.Tag
	matcher  language.Matcher
	messages map[language.Tag]map[string]string
}

// NewCatalog constructs an empty catalog with the given fallback language.
func NewCatalog(fallback language.Tag) *Catalog {
	c := &Catalog{
		fallback: fallback,
		messages: make(map[language.Tag]map[string]string),
	}
	c.ensure(fallback)
	return c
}

// Add registers a format string for key under tag.
func (c *Catalog) Add(tag language.Tag, key, format string) {
	c.ensure(tag)[key] = format
}

// Languages returns every language the catalog carries messages for.
func (c *Catalog) Languages() []language.Tag {
	tags := make([]language.Tag, len(c.tags))
	copy(tags, c.tags)
	return tags
}

// Lookup finds the format string for key in exactly the given language,
// without fallback. The audit writer uses the miss signal to decide
// whether an action produces a record at all.
func (c *Catalog) Lookup(tag language.Tag, key string) (string, bool) {
	format, ok := c.messages[tag][key]
	return format, ok
}

// Render resolves key against the caller's ordered language preferences,
// falling back to the catalog's default language, then to the key
// itself when nothing matches.
func (c *Catalog) Render(prefs []language.Tag, key string, args ...any) string {
	if c.matcher == nil {
		c.matcher = language.NewMatcher(c.tags)
	}
	_, index, _ := c.matcher.Match(prefs...)
	if index >= 0 && index < len(c.tags) {
		if format, ok := c.Lookup(c.tags[index], key); ok {
			return fmt.Sprintf(format, args...)
		}
	}
	if format, ok := c.Lookup(c.fallback, key); ok {
		return fmt.Sprintf(format, args...)
	}
	return key
}

func (c *Catalog) ensure(tag language.Tag) map[string]string {
	table, ok := c.messages[tag]
	if !ok {
		table = make(map[string]string)
		c.messages[tag] = table
		c.tags = append(c.tags, tag)
		c.matcher = nil
	}
	return table
}

// ParseLanguages parses a comma separated list of BCP 47 tags.
func ParseLanguages(list string) ([]language.Tag, error) {
	var tags []language.Tag
	for _, raw := range strings.Split(list, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		tag, err := language.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("i18n: parse language %q: %w", raw, err)
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("i18n: no languages configured")
	}
	return tags, nil
}
