// Package cart implements the service order builder: selected service lines
// with tiered pricing, per-item language/country modifiers, a one-level undo
// backup, and the summary documents sent with quote requests.
package cart

import (
	"math"
	"strconv"
	"strings"

	"github.com/zedzima/vividigit-site/internal/format"
)

// Delivery cadence values for an item.
const (
	DeliveryOneTime = "one-time"
	DeliveryMonthly = "monthly"
)

// Item is one selected service line.
type Item struct {
	Slug          string `json:"-"`
	Title         string `json:"title"`
	TierName      string `json:"tierName"`
	TierLabel     string `json:"tierLabel,omitempty"`
	Price         int    `json:"price"`
	Custom        bool   `json:"custom,omitempty"`
	Delivery      string `json:"delivery"`
	LanguageCount int    `json:"langCount"`
	CountryCount  int    `json:"countryCount"`
	Page          string `json:"page"`
}

// Pricing holds the percentage modifiers applied per extra language/country.
type Pricing struct {
	LangPct    float64
	CountryPct float64
}

// DefaultPricing matches the site's published rates: each extra language adds
// 60% of the item price, each extra target country 40%.
var DefaultPricing = Pricing{LangPct: 0.6, CountryPct: 0.4}

// PerLanguage is the surcharge one extra language adds to an item price.
func (p Pricing) PerLanguage(price int) int {
	return int(math.Round(float64(price) * p.LangPct))
}

// PerCountry is the surcharge one extra target country adds to an item price.
func (p Pricing) PerCountry(price int) int {
	return int(math.Round(float64(price) * p.CountryPct))
}

// ItemTotal computes the item price with all modifier surcharges applied.
func (p Pricing) ItemTotal(it Item) int {
	return it.Price + p.PerLanguage(it.Price)*it.LanguageCount + p.PerCountry(it.Price)*it.CountryCount
}

// Cart maps slugs to selected items, preserving insertion order for display.
// A single-slot backup provides one level of undo after Clear.
type Cart struct {
	items   map[string]Item
	order   []string
	backup  map[string]Item
	border  []string
	pricing Pricing
}

// New returns an empty cart using the given pricing.
func New(p Pricing) *Cart {
	return &Cart{
		items:   map[string]Item{},
		pricing: p,
	}
}

// Pricing returns the pricing the cart computes totals with.
func (c *Cart) Pricing() Pricing { return c.pricing }

// Len reports the number of items in the cart.
func (c *Cart) Len() int { return len(c.items) }

// Get returns the item for slug, if present.
func (c *Cart) Get(slug string) (Item, bool) {
	it, ok := c.items[slug]
	return it, ok
}

// Items returns all items in display (insertion) order.
func (c *Cart) Items() []Item {
	out := make([]Item, 0, len(c.order))
	for _, slug := range c.order {
		if it, ok := c.items[slug]; ok {
			out = append(out, it)
		}
	}
	return out
}

// PageItems returns the subset of items originating from page, in order.
// The sidebar displays and aggregates only these; the cart page shows all.
func (c *Cart) PageItems(page string) []Item {
	out := make([]Item, 0, len(c.order))
	for _, slug := range c.order {
		if it, ok := c.items[slug]; ok && it.Page == page {
			out = append(out, it)
		}
	}
	return out
}

// Add inserts or overwrites the item for it.Slug. An overwrite updates tier
// and price but keeps the modifier counts already chosen for that slug.
func (c *Cart) Add(it Item) {
	if it.Slug == "" {
		return
	}
	if it.Delivery == "" {
		it.Delivery = DeliveryOneTime
	}
	if prev, ok := c.items[it.Slug]; ok {
		it.LanguageCount = prev.LanguageCount
		it.CountryCount = prev.CountryCount
	} else {
		c.order = append(c.order, it.Slug)
	}
	if it.LanguageCount < 0 {
		it.LanguageCount = 0
	}
	if it.CountryCount < 0 {
		it.CountryCount = 0
	}
	c.items[it.Slug] = it
}

// Remove deletes the item for slug, reporting whether it was present.
func (c *Cart) Remove(slug string) bool {
	if _, ok := c.items[slug]; !ok {
		return false
	}
	delete(c.items, slug)
	c.order = dropSlug(c.order, slug)
	return true
}

// RemovePage removes every item originating from page and returns how many
// were dropped. Used by exclusive ("pick one package") selections.
func (c *Cart) RemovePage(page string) int {
	n := 0
	for slug, it := range c.items {
		if it.Page == page {
			delete(c.items, slug)
			c.order = dropSlug(c.order, slug)
			n++
		}
	}
	return n
}

// UpdateTier updates tier name, label, price and custom flag in place.
// It is a no-op when slug is not in the cart.
func (c *Cart) UpdateTier(slug, tierName, tierLabel string, price int, custom bool) bool {
	it, ok := c.items[slug]
	if !ok {
		return false
	}
	it.TierName = tierName
	it.TierLabel = tierLabel
	it.Price = price
	it.Custom = custom
	c.items[slug] = it
	return true
}

// SetDelivery switches the delivery cadence for slug.
func (c *Cart) SetDelivery(slug, delivery string) bool {
	if delivery != DeliveryOneTime && delivery != DeliveryMonthly {
		return false
	}
	it, ok := c.items[slug]
	if !ok || it.Delivery == delivery {
		return false
	}
	it.Delivery = delivery
	c.items[slug] = it
	return true
}

// Modifier fields addressable by AdjustModifier.
const (
	FieldLanguages = "languages"
	FieldCountries = "countries"
)

// AdjustModifier increments or decrements a per-item modifier count.
// Decrements floor at zero.
func (c *Cart) AdjustModifier(slug, field string, delta int) bool {
	it, ok := c.items[slug]
	if !ok {
		return false
	}
	switch field {
	case FieldLanguages:
		it.LanguageCount = clampNonNegative(it.LanguageCount + delta)
	case FieldCountries:
		it.CountryCount = clampNonNegative(it.CountryCount + delta)
	default:
		return false
	}
	c.items[slug] = it
	return true
}

// SetModifiers assigns both modifier counts for slug, flooring at zero.
func (c *Cart) SetModifiers(slug string, languages, countries int) bool {
	it, ok := c.items[slug]
	if !ok {
		return false
	}
	it.LanguageCount = clampNonNegative(languages)
	it.CountryCount = clampNonNegative(countries)
	c.items[slug] = it
	return true
}

// Clear snapshots the items into the backup slot (overwriting any previous
// backup) and empties the cart.
func (c *Cart) Clear() {
	c.backup = c.items
	c.border = c.order
	c.items = map[string]Item{}
	c.order = nil
}

// Restore replaces the cart contents with the backup taken by Clear. It
// returns false when no backup exists; the backup is consumed on success.
func (c *Cart) Restore() bool {
	if c.backup == nil {
		return false
	}
	c.items = c.backup
	c.order = c.border
	c.backup = nil
	c.border = nil
	return true
}

// HasBackup reports whether Restore would succeed.
func (c *Cart) HasBackup() bool { return c.backup != nil }

// ItemTotal computes the full price of one item under the cart's pricing.
func (c *Cart) ItemTotal(it Item) int { return c.pricing.ItemTotal(it) }

// Total sums item totals and reports whether any item has custom pricing,
// in which case displays prefix the amount with "From".
func (c *Cart) Total() (total int, hasCustom bool) {
	for _, it := range c.items {
		if it.Custom {
			hasCustom = true
		}
		total += c.pricing.ItemTotal(it)
	}
	return total, hasCustom
}

func deliveryLabel(delivery string) string {
	if delivery == DeliveryMonthly {
		return "Monthly"
	}
	return "One-time"
}

// SummaryText renders a compact human-readable cart summary, one line per
// item plus a total line. An empty cart renders the literal "Empty cart".
func (c *Cart) SummaryText() string {
	items := c.Items()
	if len(items) == 0 {
		return "Empty cart"
	}
	var lines []string
	for _, it := range items {
		var b strings.Builder
		b.WriteString("- " + it.Title + " (" + it.TierName + ") — " + deliveryLabel(it.Delivery))
		if it.LanguageCount > 0 {
			b.WriteString(", +" + strconv.Itoa(it.LanguageCount) + " lang (×" + format.Percent(c.pricing.LangPct) + ")")
		}
		if it.CountryCount > 0 {
			b.WriteString(", +" + strconv.Itoa(it.CountryCount) + " countries (×" + format.Percent(c.pricing.CountryPct) + ")")
		}
		b.WriteString(" — ")
		if it.Price > 0 {
			b.WriteString(format.Dollars(c.pricing.ItemTotal(it)))
		} else {
			b.WriteString("Custom")
		}
		lines = append(lines, b.String())
	}
	total, hasCustom := c.Total()
	prefix := ""
	if hasCustom {
		prefix = "From "
	}
	lines = append(lines, "Total: "+prefix+format.Dollars(total))
	return strings.Join(lines, "\n")
}

// OrderDocument renders the full multi-line order body attached to quote
// request messages, with per-item modifier breakdowns and a grand total.
func (c *Cart) OrderDocument(comment string) string {
	lines := []string{"ORDER DETAILS", ""}
	num := 1
	for _, it := range c.Items() {
		tier := it.TierName
		if it.TierLabel != "" {
			tier += " — " + it.TierLabel
		}
		lines = append(lines, strconv.Itoa(num)+". "+it.Title+" ("+tier+")")
		lines = append(lines, "   Delivery: "+deliveryLabel(it.Delivery))
		perLang := c.pricing.PerLanguage(it.Price)
		perCountry := c.pricing.PerCountry(it.Price)
		if it.LanguageCount > 0 {
			lines = append(lines, "   Languages: +"+strconv.Itoa(it.LanguageCount)+" × $"+strconv.Itoa(perLang)+
				" ("+format.Percent(c.pricing.LangPct)+") = $"+strconv.Itoa(it.LanguageCount*perLang))
		}
		if it.CountryCount > 0 {
			lines = append(lines, "   Countries: +"+strconv.Itoa(it.CountryCount)+" × $"+strconv.Itoa(perCountry)+
				" ("+format.Percent(c.pricing.CountryPct)+") = $"+strconv.Itoa(it.CountryCount*perCountry))
		}
		if it.Price > 0 {
			lines = append(lines, "   Subtotal: "+format.Dollars(c.pricing.ItemTotal(it)))
		} else {
			lines = append(lines, "   Subtotal: Custom quote")
		}
		lines = append(lines, "")
		num++
	}
	total, hasCustom := c.Total()
	prefix := ""
	if hasCustom {
		prefix = "From "
	}
	lines = append(lines, "GRAND TOTAL: "+prefix+format.Dollars(total))
	if comment = strings.TrimSpace(comment); comment != "" {
		lines = append(lines, "", "COMMENT:", comment)
	}
	return strings.Join(lines, "\n")
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func dropSlug(order []string, slug string) []string {
	out := order[:0]
	for _, s := range order {
		if s != slug {
			out = append(out, s)
		}
	}
	return out
}

