package prefs

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestThemeRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	SetTheme(rec, ThemeDark, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	if got := Theme(req); got != ThemeDark {
		t.Fatalf("expected dark, got %q", got)
	}
}

func TestThemeDefaultsToSystem(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := Theme(req); got != ThemeSystem {
		t.Fatalf("expected system default, got %q", got)
	}

	req.AddCookie(&http.Cookie{Name: ThemeCookie, Value: "neon"})
	if got := Theme(req); got != ThemeSystem {
		t.Fatalf("unknown theme should fall back to system, got %q", got)
	}
}

func TestSetThemeRejectsUnknownValue(t *testing.T) {
	rec := httptest.NewRecorder()
	SetTheme(rec, "neon", false)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != ThemeSystem {
		t.Fatalf("unexpected cookies %+v", cookies)
	}
}

func TestLangRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	SetLang(rec, "es", true)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	if got := Lang(req); got != "es" {
		t.Fatalf("expected es, got %q", got)
	}
}
