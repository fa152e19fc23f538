// Package seo builds meta tags and schema.org payloads for the site pages.
package seo

// OpenGraph holds the og: meta properties for social sharing.
type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
}

// Meta is the per-page SEO head data.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
}
