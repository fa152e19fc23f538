package cart

// State is the persisted snapshot of a cart. Items are keyed by slug; Order
// preserves display order across reloads; Backup carries the one-level undo
// slot so a clear can still be undone on the next page view.
type State struct {
	Items  map[string]Item `json:"items"`
	Order  []string        `json:"order,omitempty"`
	Backup map[string]Item `json:"backup,omitempty"`
	BOrder []string        `json:"backupOrder,omitempty"`
}

// Persistence loads and saves cart state. Implementations are expected to be
// unreliable (storage may be disabled or corrupt); the store swallows their
// errors and keeps working in memory.
type Persistence interface {
	Load() (State, error)
	Save(State) error
}

// Store owns a cart, flushes it through the injected persistence after every
// mutation, and notifies change listeners so views can re-render.
type Store struct {
	cart     *Cart
	persist  Persistence
	onChange []func(*Cart)
}

// NewStore builds a store rehydrated from p. Load failures leave the cart
// empty; the session continues in memory.
func NewStore(pricing Pricing, p Persistence) *Store {
	s := &Store{cart: New(pricing), persist: p}
	if p != nil {
		if st, err := p.Load(); err == nil {
			s.cart.applyState(st)
		}
	}
	return s
}

// Cart exposes the underlying cart for reads.
func (s *Store) Cart() *Cart { return s.cart }

// OnChange registers a listener invoked after every mutation.
func (s *Store) OnChange(fn func(*Cart)) {
	s.onChange = append(s.onChange, fn)
}

func (s *Store) changed() {
	if s.persist != nil {
		// Storage failures are deliberately ignored; see Persistence.
		_ = s.persist.Save(s.cart.snapshot())
	}
	for _, fn := range s.onChange {
		fn(s.cart)
	}
}

// Add inserts or overwrites an item, persists, and notifies listeners.
func (s *Store) Add(it Item) {
	s.cart.Add(it)
	s.changed()
}

// Remove deletes an item, persists, and notifies listeners.
func (s *Store) Remove(slug string) bool {
	ok := s.cart.Remove(slug)
	if ok {
		s.changed()
	}
	return ok
}

// UpdateTier applies a tier change, persists, and notifies listeners.
func (s *Store) UpdateTier(slug, tierName, tierLabel string, price int, custom bool) bool {
	ok := s.cart.UpdateTier(slug, tierName, tierLabel, price, custom)
	if ok {
		s.changed()
	}
	return ok
}

// SetDelivery switches delivery cadence, persists, and notifies listeners.
func (s *Store) SetDelivery(slug, delivery string) bool {
	ok := s.cart.SetDelivery(slug, delivery)
	if ok {
		s.changed()
	}
	return ok
}

// AdjustModifier bumps a modifier count, persists, and notifies listeners.
func (s *Store) AdjustModifier(slug, field string, delta int) bool {
	ok := s.cart.AdjustModifier(slug, field, delta)
	if ok {
		s.changed()
	}
	return ok
}

// Clear moves the items to the backup slot, persists, and notifies listeners.
func (s *Store) Clear() {
	s.cart.Clear()
	s.changed()
}

// Restore undoes the last Clear. It returns false when there is nothing to
// restore.
func (s *Store) Restore() bool {
	if !s.cart.Restore() {
		return false
	}
	s.changed()
	return true
}

// HandleTaskToggled applies a selection notification: selected adds (after
// clearing the page for exclusive selections), deselected removes.
func (s *Store) HandleTaskToggled(ev TaskToggled) {
	switch {
	case ev.ReplaceAll:
		s.cart.RemovePage(ev.Page)
		fallthrough
	case ev.Selected:
		s.Add(Item{
			Slug:      ev.Slug,
			Title:     ev.Title,
			TierName:  ev.TierName,
			TierLabel: ev.TierLabel,
			Price:     ev.Price,
			Custom:    ev.Custom,
			Page:      ev.Page,
		})
	default:
		s.Remove(ev.Slug)
	}
}

// HandleTierChanged applies a tier change notification.
func (s *Store) HandleTierChanged(ev TierChanged) {
	s.UpdateTier(ev.TaskSlug, ev.TierName, ev.TierLabel, ev.Price, ev.Custom)
}

func (c *Cart) snapshot() State {
	st := State{Items: map[string]Item{}}
	for slug, it := range c.items {
		st.Items[slug] = it
	}
	st.Order = append([]string(nil), c.order...)
	if c.backup != nil {
		st.Backup = map[string]Item{}
		for slug, it := range c.backup {
			st.Backup[slug] = it
		}
		st.BOrder = append([]string(nil), c.border...)
	}
	return st
}

func (c *Cart) applyState(st State) {
	c.items = map[string]Item{}
	c.order = nil
	for _, slug := range st.Order {
		if it, ok := st.Items[slug]; ok {
			it.Slug = slug
			c.normalize(&it)
			c.items[slug] = it
			c.order = append(c.order, slug)
		}
	}
	// Items persisted without an order entry (older snapshots) still load.
	for slug, it := range st.Items {
		if _, ok := c.items[slug]; ok {
			continue
		}
		it.Slug = slug
		c.normalize(&it)
		c.items[slug] = it
		c.order = append(c.order, slug)
	}
	if st.Backup != nil {
		c.backup = map[string]Item{}
		c.border = nil
		for _, slug := range st.BOrder {
			if it, ok := st.Backup[slug]; ok {
				it.Slug = slug
				c.normalize(&it)
				c.backup[slug] = it
				c.border = append(c.border, slug)
			}
		}
		for slug, it := range st.Backup {
			if _, ok := c.backup[slug]; ok {
				continue
			}
			it.Slug = slug
			c.normalize(&it)
			c.backup[slug] = it
			c.border = append(c.border, slug)
		}
	}
}

func (c *Cart) normalize(it *Item) {
	if it.Delivery == "" {
		it.Delivery = DeliveryOneTime
	}
	it.LanguageCount = clampNonNegative(it.LanguageCount)
	it.CountryCount = clampNonNegative(it.CountryCount)
}

// Snapshot returns the persisted representation of the cart.
func (c *Cart) Snapshot() State { return c.snapshot() }

// FromState builds a cart from a persisted snapshot.
func FromState(pricing Pricing, st State) *Cart {
	c := New(pricing)
	c.applyState(st)
	return c
}
