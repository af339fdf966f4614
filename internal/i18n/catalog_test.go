package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestRenderFallsBackThroughLanguages(t *testing.T) {
	c := NewCatalog(language.English)
	c.Add(language.English, "greeting", "Hello %s")
	c.Add(language.Dutch, "greeting", "Hallo %s")

	got := c.Render([]language.Tag{language.Dutch}, "greeting", "Ada")
	if got != "Hallo Ada" {
		t.Fatalf("expected Dutch greeting, got %q", got)
	}

	// Unsupported preference falls through to the default language.
	got = c.Render([]language.Tag{language.Japanese}, "greeting", "Ada")
	if got != "Hello Ada" {
		t.Fatalf("expected English fallback, got %q", got)
	}
}

func TestRenderRegionalVariantMatches(t *testing.T) {
	c := NewCatalog(language.English)
	c.Add(language.English, "greeting", "Hello %s")

	got := c.Render([]language.Tag{language.AmericanEnglish}, "greeting", "Ada")
	if got != "Hello Ada" {
		t.Fatalf("expected en-US to match en, got %q", got)
	}
}

func TestRenderUnknownKeyReturnsKey(t *testing.T) {
	c := NewCatalog(language.English)
	if got := c.Render([]language.Tag{language.English}, "missing.key"); got != "missing.key" {
		t.Fatalf("expected key passthrough, got %q", got)
	}
}

func TestLookupDoesNotFallBack(t *testing.T) {
	c := NewCatalog(language.English)
	c.Add(language.English, "only.english", "English only")

	if _, ok := c.Lookup(language.Indonesian, "only.english"); ok {
		t.Fatalf("expected miss for language without the key")
	}
	if _, ok := c.Lookup(language.English, "only.english"); !ok {
		t.Fatalf("expected hit for exact language")
	}
}

func TestParseLanguages(t *testing.T) {
	tags, err := ParseLanguages("en, id")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}

	if _, err := ParseLanguages(""); err == nil {
		t.Fatalf("expected error for empty list")
	}
	if _, err := ParseLanguages("not a tag!!"); err == nil {
		t.Fatalf("expected error for invalid tag")
	}
}
