package relay

import (
	"net/url"
	"regexp"
	"strings"
)

var referrerBuckets = []struct {
	pattern *regexp.Regexp
	label   string
}{
	{regexp.MustCompile(`(?i)google\.`), "google (organic)"},
	{regexp.MustCompile(`(?i)bing\.`), "bing (organic)"},
	{regexp.MustCompile(`(?i)yahoo\.`), "yahoo (organic)"},
	{regexp.MustCompile(`(?i)duckduckgo`), "duckduckgo (organic)"},
	{regexp.MustCompile(`(?i)yandex`), "yandex (organic)"},
	{regexp.MustCompile(`(?i)facebook|fb\.`), "facebook (social)"},
	{regexp.MustCompile(`(?i)twitter|x\.com`), "twitter (social)"},
	{regexp.MustCompile(`(?i)linkedin`), "linkedin (social)"},
	{regexp.MustCompile(`(?i)instagram`), "instagram (social)"},
	{regexp.MustCompile(`(?i)youtube`), "youtube (social)"},
	{regexp.MustCompile(`(?i)reddit`), "reddit (social)"},
}

// TrafficSource classifies how a visitor arrived, for the traffic_source
// field of relay submissions. UTM parameters win over the referrer; a missing
// or same-host referrer counts as direct.
func TrafficSource(query url.Values, referrer, siteHost string) string {
	if src := query.Get("utm_source"); src != "" {
		parts := []string{src}
		if medium := query.Get("utm_medium"); medium != "" {
			parts = append(parts, medium)
		}
		if campaign := query.Get("utm_campaign"); campaign != "" {
			parts = append(parts, "("+campaign+")")
		}
		if term := query.Get("utm_term"); term != "" {
			parts = append(parts, "["+term+"]")
		}
		if content := query.Get("utm_content"); content != "" {
			parts = append(parts, "{"+content+"}")
		}
		return strings.Join(parts, " / ")
	}

	referrer = strings.TrimSpace(referrer)
	if referrer == "" {
		return "direct"
	}
	u, err := url.Parse(referrer)
	if err != nil || u.Hostname() == "" {
		return referrer
	}
	host := u.Hostname()
	if host == siteHost {
		return "direct"
	}
	for _, bucket := range referrerBuckets {
		if bucket.pattern.MatchString(host) {
			return bucket.label
		}
	}
	return host + " (referral)"
}
