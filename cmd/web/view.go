package main

import (
	"html/template"
	"net/http"

	"github.com/zedzima/vividigit-site/internal/cart"
	"github.com/zedzima/vividigit-site/internal/content"
	"github.com/zedzima/vividigit-site/internal/format"
	"github.com/zedzima/vividigit-site/internal/nav"
	"github.com/zedzima/vividigit-site/internal/prefs"
	"github.com/zedzima/vividigit-site/internal/seo"
)

// PageData is the view model shared by every rendered page.
type PageData struct {
	Title       string
	Lang        string
	Theme       string
	Path        string
	Canonical   string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb
	Flash       Flash
	SEO         seo.Meta
	JSONLD      []template.JS

	Services []content.Service
	Service  *ServiceView
	Cart     CartView
	Order    string
	Form     FormValues
}

// Flash carries a one-shot status message passed via query parameters.
type Flash struct {
	Tone string // "success" or "error"
	Text string
}

// FormValues preserves posted contact form fields across a failed dispatch.
type FormValues struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// ServiceView is one service page with rendered body and task selection state.
type ServiceView struct {
	content.Service
	BodyHTML template.HTML
	Tasks    []TaskView
}

// TaskView decorates a catalog task with the visitor's current selection.
type TaskView struct {
	content.Task
	InCart      bool
	CurrentTier string
}

// CartLine is one cart row ready for display.
type CartLine struct {
	Slug          string
	Title         string
	TierName      string
	TierLabel     string
	Delivery      string
	LanguageCount int
	CountryCount  int
	PerLanguage   int
	PerCountry    int
	PriceText     string
	TotalText     string
	Custom        bool
	Page          string
}

// CartView aggregates the lines shown in the sidebar or on the cart page.
type CartView struct {
	Lines     []CartLine
	Count     int
	TotalText string
	HasItems  bool
	HasCustom bool
	HasBackup bool
}

// buildCartView renders cart contents for display. With a page, only that
// page's items are listed and totalled (the sidebar view); with an empty
// page every item counts (the cart page).
func buildCartView(c *cart.Cart, page string) CartView {
	items := c.Items()
	if page != "" {
		items = c.PageItems(page)
	}

	view := CartView{HasBackup: c.HasBackup()}
	total := 0
	for _, it := range items {
		line := CartLine{
			Slug:          it.Slug,
			Title:         it.Title,
			TierName:      it.TierName,
			TierLabel:     it.TierLabel,
			Delivery:      it.Delivery,
			LanguageCount: it.LanguageCount,
			CountryCount:  it.CountryCount,
			PerLanguage:   c.Pricing().PerLanguage(it.Price),
			PerCountry:    c.Pricing().PerCountry(it.Price),
			PriceText:     format.Price(it.Price),
			Custom:        it.Custom,
			Page:          it.Page,
		}
		if it.Price > 0 {
			line.TotalText = format.Dollars(c.ItemTotal(it))
		} else {
			line.TotalText = "Custom"
		}
		if it.Custom {
			view.HasCustom = true
		}
		total += c.ItemTotal(it)
		view.Lines = append(view.Lines, line)
	}

	view.Count = len(view.Lines)
	view.HasItems = view.Count > 0
	if view.HasItems {
		if view.HasCustom {
			view.TotalText = "From " + format.Dollars(total)
		} else {
			view.TotalText = format.Dollars(total)
		}
	} else {
		view.TotalText = "Empty cart"
	}
	return view
}

func buildServiceView(svc content.Service, c *cart.Cart) (*ServiceView, error) {
	body, err := catalog.RenderBody(svc)
	if err != nil {
		return nil, err
	}
	view := &ServiceView{Service: svc, BodyHTML: body}
	for _, task := range svc.Tasks {
		tv := TaskView{Task: task}
		if it, ok := c.Get(task.Slug); ok {
			tv.InCart = true
			tv.CurrentTier = it.TierName
		}
		view.Tasks = append(view.Tasks, tv)
	}
	return view, nil
}

// requestLang resolves the display language: explicit cookie override first,
// then Accept-Language negotiation.
func requestLang(r *http.Request) string {
	if override := prefs.Lang(r); override != "" && i18nBundle.IsSupported(override) {
		return override
	}
	return i18nBundle.Resolve(r.Header.Get("Accept-Language"))
}

func newPageData(r *http.Request, title string) PageData {
	lang := requestLang(r)
	crumbs := nav.Breadcrumbs(r.URL.Path)
	vm := PageData{
		Title:       title,
		Lang:        lang,
		Theme:       prefs.Theme(r),
		Path:        r.URL.Path,
		Canonical:   absoluteURL(r),
		Nav:         nav.Build(r.URL.Path),
		Breadcrumbs: crumbs,
		Flash:       flashFromQuery(r),
	}
	vm.SEO = seo.Meta{
		Title:     title + " | Vividigit",
		Canonical: vm.Canonical,
		OG: seo.OpenGraph{
			Title: title + " | Vividigit",
			Type:  "website",
		},
	}
	vm.JSONLD = append(vm.JSONLD,
		template.JS(seo.JSON(seo.Organization("Vividigit", cfg.Site.BaseURL, ""))))
	if len(crumbs) > 1 {
		items := make([]seo.BreadcrumbItem, 0, len(crumbs))
		for _, c := range crumbs {
			name := c.Label
			if c.LabelKey != "" {
				name = i18nBundle.T(lang, c.LabelKey)
			}
			items = append(items, seo.BreadcrumbItem{Name: name, Item: cfg.Site.BaseURL + c.Href})
		}
		vm.JSONLD = append(vm.JSONLD, template.JS(seo.JSON(seo.BreadcrumbList(items))))
	}
	return vm
}

func flashFromQuery(r *http.Request) Flash {
	q := r.URL.Query()
	lang := requestLang(r)
	switch {
	case q.Get("sent") == "1":
		return Flash{Tone: "success", Text: i18nBundle.T(lang, "contact.sent")}
	case q.Get("sent") == "0":
		return Flash{Tone: "error", Text: i18nBundle.T(lang, "contact.failed")}
	case q.Get("email") == "invalid":
		return Flash{Tone: "error", Text: i18nBundle.T(lang, "contact.invalid_email")}
	}
	return Flash{}
}
