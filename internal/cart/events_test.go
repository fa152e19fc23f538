package cart

import "testing"

func toggled(slug, page string, selected bool) TaskToggled {
	return TaskToggled{
		Slug:     slug,
		Title:    "Service " + slug,
		TierName: "S",
		Price:    300,
		Selected: selected,
		Page:     page,
	}
}

func TestBusSelectionAddsAndRemoves(t *testing.T) {
	bus := NewBus()
	s := NewStore(DefaultPricing, nil)
	bus.Attach(s)

	bus.DispatchTaskToggled(toggled("a", "/services/seo", true))
	if _, ok := s.Cart().Get("a"); !ok {
		t.Fatalf("selected task not added")
	}

	bus.DispatchTaskToggled(toggled("a", "/services/seo", false))
	if _, ok := s.Cart().Get("a"); ok {
		t.Fatalf("deselected task not removed")
	}
}

func TestBusReplaceAllClearsPage(t *testing.T) {
	bus := NewBus()
	s := NewStore(DefaultPricing, nil)
	bus.Attach(s)

	bus.DispatchTaskToggled(toggled("a", "/services/seo", true))
	bus.DispatchTaskToggled(toggled("b", "/services/seo", true))
	bus.DispatchTaskToggled(toggled("other", "/services/ppc", true))

	pkg := toggled("seo-growth", "/services/seo", true)
	pkg.ReplaceAll = true
	bus.DispatchTaskToggled(pkg)

	if s.Cart().Len() != 2 {
		t.Fatalf("expected package + off-page item, got %d items", s.Cart().Len())
	}
	if _, ok := s.Cart().Get("seo-growth"); !ok {
		t.Fatalf("package not added")
	}
	if _, ok := s.Cart().Get("other"); !ok {
		t.Fatalf("items from other pages must survive an exclusive selection")
	}
}

func TestBusTierChanged(t *testing.T) {
	bus := NewBus()
	s := NewStore(DefaultPricing, nil)
	bus.Attach(s)

	bus.DispatchTaskToggled(toggled("a", "/services/seo", true))
	bus.DispatchTierChanged(TierChanged{TaskSlug: "a", TierName: "L", TierLabel: "Large", Price: 900})

	it, _ := s.Cart().Get("a")
	if it.TierName != "L" || it.Price != 900 {
		t.Fatalf("tier change not applied: %+v", it)
	}

	// Tier changes for slugs not in the cart are dropped.
	bus.DispatchTierChanged(TierChanged{TaskSlug: "ghost", TierName: "L", Price: 900})
	if s.Cart().Len() != 1 {
		t.Fatalf("tier change created an item")
	}
}

func TestBusHandlersRunInDispatchOrder(t *testing.T) {
	bus := NewBus()
	var seen []string
	bus.SubscribeTaskToggled(func(ev TaskToggled) { seen = append(seen, "first:"+ev.Slug) })
	bus.SubscribeTaskToggled(func(ev TaskToggled) { seen = append(seen, "second:"+ev.Slug) })

	bus.DispatchTaskToggled(toggled("a", "/p", true))
	bus.DispatchTaskToggled(toggled("b", "/p", true))

	want := []string{"first:a", "second:a", "first:b", "second:b"}
	if len(seen) != len(want) {
		t.Fatalf("got %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("handlers ran out of order: got %v want %v", seen, want)
		}
	}
}
