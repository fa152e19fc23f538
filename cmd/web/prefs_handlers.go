package main

import (
	"net/http"

	"github.com/zedzima/vividigit-site/internal/prefs"
)

// ThemePrefHandler stores the visitor's theme choice.
func ThemePrefHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	prefs.SetTheme(w, r.FormValue("theme"), cfg.Session.Secure)
	redirectBack(w, r, "/")
}

// LangPrefHandler stores an explicit language override.
func LangPrefHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	lang := r.FormValue("lang")
	if !i18nBundle.IsSupported(lang) {
		http.Error(w, "unsupported language", http.StatusBadRequest)
		return
	}
	prefs.SetLang(w, lang, cfg.Session.Secure)
	redirectBack(w, r, "/")
}
