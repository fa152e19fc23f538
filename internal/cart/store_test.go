package cart

import (
	"errors"
	"testing"
)

type memPersistence struct {
	state State
	saves int
	fail  bool
}

func (m *memPersistence) Load() (State, error) {
	if m.fail {
		return State{}, errors.New("storage disabled")
	}
	return m.state, nil
}

func (m *memPersistence) Save(st State) error {
	m.saves++
	if m.fail {
		return errors.New("storage disabled")
	}
	m.state = st
	return nil
}

func TestStoreSavesAfterEveryMutation(t *testing.T) {
	p := &memPersistence{}
	s := NewStore(DefaultPricing, p)

	s.Add(item("a", 100))
	s.AdjustModifier("a", FieldLanguages, 1)
	s.SetDelivery("a", DeliveryMonthly)
	s.Remove("a")

	if p.saves != 4 {
		t.Fatalf("expected 4 saves, got %d", p.saves)
	}
}

func TestStoreRehydratesFromPersistence(t *testing.T) {
	p := &memPersistence{}
	first := NewStore(DefaultPricing, p)
	first.Add(item("seo-audit", 800))
	first.AdjustModifier("seo-audit", FieldCountries, 2)

	second := NewStore(DefaultPricing, p)
	it, ok := second.Cart().Get("seo-audit")
	if !ok {
		t.Fatalf("item not rehydrated")
	}
	if it.CountryCount != 2 {
		t.Fatalf("modifier count lost on reload: %+v", it)
	}
}

func TestStoreSurvivesStorageFailure(t *testing.T) {
	p := &memPersistence{fail: true}
	s := NewStore(DefaultPricing, p)

	// Mutations keep working in memory despite save errors.
	s.Add(item("a", 100))
	if s.Cart().Len() != 1 {
		t.Fatalf("cart lost item on storage failure")
	}
}

func TestStoreBackupSurvivesReload(t *testing.T) {
	p := &memPersistence{}
	first := NewStore(DefaultPricing, p)
	first.Add(item("a", 100))
	first.Clear()

	second := NewStore(DefaultPricing, p)
	if !second.Restore() {
		t.Fatalf("backup should survive a reload")
	}
	if second.Cart().Len() != 1 {
		t.Fatalf("restore produced %d items", second.Cart().Len())
	}
}

func TestStoreNotifiesListeners(t *testing.T) {
	s := NewStore(DefaultPricing, nil)
	var renders int
	s.OnChange(func(*Cart) { renders++ })

	s.Add(item("a", 100))
	s.Remove("a")
	if renders != 2 {
		t.Fatalf("expected 2 change notifications, got %d", renders)
	}
	// Failed operations do not re-render.
	s.Remove("a")
	if renders != 2 {
		t.Fatalf("no-op remove should not notify, got %d", renders)
	}
}
