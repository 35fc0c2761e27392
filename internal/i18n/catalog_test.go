package i18n

import "testing"

func TestEmbeddedCatalogIsComplete(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	locales := c.Locales()
	if len(locales) < 2 {
		t.Fatalf("expected at least two locales, got %v", locales)
	}

	base := c.messages[DefaultLocale]
	for _, locale := range locales {
		for key := range base {
			if _, ok := c.messages[locale][key]; !ok {
				t.Errorf("locale %s missing key %s", locale, key)
			}
		}
	}
}

func TestCatalogT(t *testing.T) {
	c, err := Parse([]byte("tr:\n  hello: \"merhaba %s\"\n  only.tr: \"yalnız\"\nen:\n  hello: \"hello %s\"\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if got := c.T("en-US", "hello", "alice"); got != "hello alice" {
		t.Fatalf("unexpected translation %q", got)
	}
	if got := c.T("en", "only.tr"); got != "yalnız" {
		t.Fatalf("expected fallback to default locale, got %q", got)
	}
	if got := c.T("de", "hello", "x"); got != "merhaba x" {
		t.Fatalf("expected unknown locale to fall back, got %q", got)
	}
	if got := c.T("en", "missing.key"); got != "missing.key" {
		t.Fatalf("expected key echo, got %q", got)
	}
	if !c.Has("EN") || c.Has("de") {
		t.Fatal("unexpected Has results")
	}
}

func TestParseRejectsEmpty(t *testing.T) {
	if _, err := Parse([]byte("")); err == nil {
		t.Fatal("expected error for empty catalog")
	}
}

func TestCatalogN(t *testing.T) {
	c, err := Parse([]byte("tr:\n  count: \"%d video\"\nen:\n  count: \"%d videos\"\n  count.one: \"%d video\"\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	cases := []struct {
		locale string
		n      int
		want   string
	}{
		{"en", 1, "1 video"},
		{"en", 0, "0 videos"},
		{"en", 2, "2 videos"},
		{"tr", 1, "1 video"},
		{"tr", 3, "3 video"},
	}
	for _, tc := range cases {
		if got := c.N(tc.locale, "count", tc.n); got != tc.want {
			t.Errorf("N(%s, %d) = %q, want %q", tc.locale, tc.n, got, tc.want)
		}
	}
}
