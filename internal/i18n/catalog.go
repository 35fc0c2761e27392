// Package i18n serves the localized UI strings from an embedded YAML catalog.
package i18n

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when a locale or key is missing.
const DefaultLocale = "tr"

//go:embed messages.yaml
var embedded []byte

// Catalog maps locale -> key -> format string.
type Catalog struct {
	messages map[string]map[string]string
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(embedded)
}

// MustLoad is Load for package initialisation; the embedded catalog is
// covered by tests.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a catalog from YAML data.
func Parse(data []byte) (*Catalog, error) {
	var messages map[string]map[string]string
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("parse message catalog: %w", err)
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("parse message catalog: no locales")
	}
	return &Catalog{messages: messages}, nil
}

// Locales lists the available locales in sorted order.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.messages))
	for locale := range c.messages {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Has reports whether locale is present.
func (c *Catalog) Has(locale string) bool {
	_, ok := c.messages[normalize(locale)]
	return ok
}

// T formats key for locale, falling back to DefaultLocale and then to the key itself.
func (c *Catalog) T(locale, key string, args ...any) string {
	format, ok := c.lookup(normalize(locale), key)
	if !ok {
		format, ok = c.lookup(DefaultLocale, key)
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// N formats a count message. When n is 1 and the locale has a "<key>.one"
// form, that form is used; otherwise it behaves like T.
func (c *Catalog) N(locale, key string, n int) string {
	if n == 1 {
		if _, ok := c.lookup(normalize(locale), key+".one"); ok {
			return c.T(locale, key+".one", n)
		}
	}
	return c.T(locale, key, n)
}

func (c *Catalog) lookup(locale, key string) (string, bool) {
	msgs, ok := c.messages[locale]
	if !ok {
		return "", false
	}
	format, ok := msgs[key]
	return format, ok
}

func normalize(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		locale = locale[:i]
	}
	return locale
}
