// Package content loads the service catalog that powers service pages: the
// task pickers, pricing tiers, and descriptions the cart selects from.
package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var defaultData embed.FS

// ErrNotFound is returned when a service slug is unknown.
var ErrNotFound = errors.New("content: not found")

// Tier is one named pricing level of a service.
type Tier struct {
	Name   string `yaml:"name"`
	Label  string `yaml:"label"`
	Price  int    `yaml:"price"`
	Custom bool   `yaml:"custom"`
}

// Task is a selectable line inside a service page's task picker.
type Task struct {
	Slug  string `yaml:"slug"`
	Title string `yaml:"title"`
	Tiers []Tier `yaml:"tiers"`
	// DoorOpener marks the recommended entry-level task on its page.
	DoorOpener bool `yaml:"door_opener"`
}

// Package is an exclusive bundle; choosing one replaces the page's items.
type Package struct {
	Slug  string `yaml:"slug"`
	Name  string `yaml:"name"`
	Price int    `yaml:"price"`
}

// Service is one service page definition.
type Service struct {
	Slug     string    `yaml:"slug"`
	Title    string    `yaml:"title"`
	Summary  string    `yaml:"summary"`
	Body     string    `yaml:"body"`
	Order    int       `yaml:"order"`
	Tasks    []Task    `yaml:"tasks"`
	Packages []Package `yaml:"packages"`
}

// Page returns the site path of the service page.
func (s Service) Page() string { return "/services/" + s.Slug }

// DefaultTier is the tier a freshly checked task starts on.
func (t Task) DefaultTier() Tier {
	if len(t.Tiers) == 0 {
		return Tier{Name: "S"}
	}
	return t.Tiers[0]
}

// Catalog holds all services keyed by slug.
type Catalog struct {
	services map[string]Service
	order    []string
	md       goldmark.Markdown
	policy   *bluemonday.Policy
}

// Load parses every YAML document under dir in fsys.
func Load(fsys fs.FS, dir string) (*Catalog, error) {
	c := &Catalog{
		services: map[string]Service{},
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   bluemonday.UGCPolicy(),
	}
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		raw, err := fs.ReadFile(fsys, dir+"/"+entry.Name())
		if err != nil {
			return nil, err
		}
		var services []Service
		if err := yaml.Unmarshal(raw, &services); err != nil {
			return nil, fmt.Errorf("content: parse %s: %w", entry.Name(), err)
		}
		for _, svc := range services {
			if svc.Slug == "" {
				return nil, fmt.Errorf("content: service without slug in %s", entry.Name())
			}
			c.services[svc.Slug] = svc
		}
	}
	for slug := range c.services {
		c.order = append(c.order, slug)
	}
	sort.Slice(c.order, func(i, j int) bool {
		a, b := c.services[c.order[i]], c.services[c.order[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Slug < b.Slug
	})
	return c, nil
}

// LoadDefault loads the catalog embedded in the binary.
func LoadDefault() (*Catalog, error) {
	return Load(defaultData, "data")
}

// Get returns the service for slug.
func (c *Catalog) Get(slug string) (Service, error) {
	svc, ok := c.services[slug]
	if !ok {
		return Service{}, ErrNotFound
	}
	return svc, nil
}

// All returns every service in display order.
func (c *Catalog) All() []Service {
	out := make([]Service, 0, len(c.order))
	for _, slug := range c.order {
		out = append(out, c.services[slug])
	}
	return out
}

// RenderBody converts a service's markdown body to sanitized HTML.
func (c *Catalog) RenderBody(svc Service) (template.HTML, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(svc.Body), &buf); err != nil {
		return "", fmt.Errorf("content: render %s: %w", svc.Slug, err)
	}
	return template.HTML(c.policy.SanitizeBytes(buf.Bytes())), nil
}
