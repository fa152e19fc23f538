package i18n

import "testing"

func TestResolveHonorsQValues(t *testing.T) {
	b, err := LoadDefault("en")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := b.Resolve("en;q=0.8, es;q=0.9")
	if got != "es" {
		t.Fatalf("expected es, got %s", got)
	}
}

func TestResolveFallsBackOnUnsupported(t *testing.T) {
	b, err := LoadDefault("en")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := b.Resolve("fr-FR, de;q=0.7"); got != "en" {
		t.Fatalf("expected fallback en, got %s", got)
	}
}

func TestTranslationFallback(t *testing.T) {
	b, err := LoadDefault("en")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := b.T("es", "cart.empty"); got != "Carrito vacío" {
		t.Fatalf("unexpected translation %q", got)
	}
	if got := b.T("es", "no.such.key"); got != "no.such.key" {
		t.Fatalf("missing key should echo, got %q", got)
	}
}
