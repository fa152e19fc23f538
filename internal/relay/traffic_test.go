package relay

import (
	"net/url"
	"testing"
)

func TestTrafficSourceUTM(t *testing.T) {
	q := url.Values{}
	q.Set("utm_source", "newsletter")
	q.Set("utm_medium", "email")
	q.Set("utm_campaign", "spring")
	q.Set("utm_term", "seo")
	q.Set("utm_content", "cta")

	got := TrafficSource(q, "https://google.com/", "vividigit.com")
	want := "newsletter / email / (spring) / [seo] / {cta}"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestTrafficSourceReferrerBuckets(t *testing.T) {
	cases := map[string]string{
		"https://www.google.com/search?q=x": "google (organic)",
		"https://duckduckgo.com/":           "duckduckgo (organic)",
		"https://www.linkedin.com/feed/":    "linkedin (social)",
		"https://x.com/somebody":            "twitter (social)",
		"https://news.example.org/article":  "news.example.org (referral)",
	}
	for ref, want := range cases {
		if got := TrafficSource(url.Values{}, ref, "vividigit.com"); got != want {
			t.Fatalf("referrer %s: got %q want %q", ref, got, want)
		}
	}
}

func TestTrafficSourceDirect(t *testing.T) {
	if got := TrafficSource(url.Values{}, "", "vividigit.com"); got != "direct" {
		t.Fatalf("empty referrer: got %q", got)
	}
	if got := TrafficSource(url.Values{}, "https://vividigit.com/services", "vividigit.com"); got != "direct" {
		t.Fatalf("same-host referrer: got %q", got)
	}
}

func TestFormCollectUsesDeclaredRoles(t *testing.T) {
	values := url.Values{}
	values.Set("name", "Ada")
	values.Set("email", "a@b.co")
	values.Set("message", "hello")
	values.Set("unknown", "dropped")

	fs := ContactForm.Collect(values)
	if fs.Name != "Ada" || fs.Email != "a@b.co" || fs.Message != "hello" {
		t.Fatalf("fields not collected: %+v", fs)
	}
	if fs.Phone != "" || fs.Source != "" {
		t.Fatalf("absent fields must stay empty: %+v", fs)
	}
}

func TestFormSubjects(t *testing.T) {
	if got := QuickContactForm.Subject("Vividigit — SEO"); got != "Quick Contact from Vividigit — SEO" {
		t.Fatalf("quick subject: %q", got)
	}
	if got := ContactForm.Subject("Vividigit"); got != "Contact Form from Vividigit" {
		t.Fatalf("contact subject: %q", got)
	}
}
