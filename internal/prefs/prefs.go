// Package prefs stores visitor display preferences in plain cookies.
package prefs

import (
	"net/http"
	"time"
)

// Cookie names for visitor preferences.
const (
	ThemeCookie = "vividigit_theme"
	LangCookie  = "vividigit_lang"
)

// Theme display modes.
const (
	ThemeSystem = "system"
	ThemeDark   = "dark"
	ThemeLight  = "light"
)

const maxAge = 365 * 24 * time.Hour

// ValidTheme reports whether v is a recognised theme value.
func ValidTheme(v string) bool {
	switch v {
	case ThemeSystem, ThemeDark, ThemeLight:
		return true
	}
	return false
}

// Theme reads the visitor's theme preference, defaulting to system.
func Theme(r *http.Request) string {
	c, err := r.Cookie(ThemeCookie)
	if err != nil || !ValidTheme(c.Value) {
		return ThemeSystem
	}
	return c.Value
}

// SetTheme persists the theme preference. Unknown values reset to system.
func SetTheme(w http.ResponseWriter, v string, secure bool) {
	if !ValidTheme(v) {
		v = ThemeSystem
	}
	setCookie(w, ThemeCookie, v, secure)
}

// Lang reads the visitor's language override, empty when unset.
func Lang(r *http.Request) string {
	c, err := r.Cookie(LangCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// SetLang persists the language override.
func SetLang(w http.ResponseWriter, lang string, secure bool) {
	setCookie(w, LangCookie, lang, secure)
}

func setCookie(w http.ResponseWriter, name, value string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}
