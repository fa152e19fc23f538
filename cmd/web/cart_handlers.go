package main

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zedzima/vividigit-site/internal/cart"
	"github.com/zedzima/vividigit-site/internal/content"
)

// taskBus wires a request-scoped event bus to the store, the same path the
// selection widgets use.
func taskBus(store *cart.Store) *cart.Bus {
	bus := cart.NewBus()
	bus.Attach(store)
	return bus
}

func findTask(serviceSlug, taskSlug string) (content.Service, content.Task, bool) {
	svc, err := catalog.Get(serviceSlug)
	if err != nil {
		return content.Service{}, content.Task{}, false
	}
	for _, task := range svc.Tasks {
		if task.Slug == taskSlug {
			return svc, task, true
		}
	}
	return svc, content.Task{}, false
}

func findTier(task content.Task, name string) content.Tier {
	for _, tier := range task.Tiers {
		if tier.Name == name {
			return tier
		}
	}
	return task.DefaultTier()
}

// CartAddHandler toggles a task or package selection. Prices always come
// from the catalog, never from the posted form.
func CartAddHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	serviceSlug := r.FormValue("service")
	store := cartStore(w, r)
	bus := taskBus(store)

	if pkgSlug := r.FormValue("package"); pkgSlug != "" {
		svc, err := catalog.Get(serviceSlug)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		for _, pkg := range svc.Packages {
			if pkg.Slug != pkgSlug {
				continue
			}
			// Packages are exclusive per page: picking one replaces
			// everything already selected from that page.
			bus.DispatchTaskToggled(cart.TaskToggled{
				Slug:       pkg.Slug,
				Title:      pkg.Name,
				TierName:   "PKG",
				Price:      pkg.Price,
				Selected:   true,
				ReplaceAll: true,
				Page:       svc.Page(),
			})
			redirectBack(w, r, svc.Page())
			return
		}
		http.NotFound(w, r)
		return
	}

	svc, task, ok := findTask(serviceSlug, r.FormValue("task"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	tier := findTier(task, r.FormValue("tier"))
	selected := r.FormValue("selected") != "0"

	bus.DispatchTaskToggled(cart.TaskToggled{
		Slug:      task.Slug,
		Title:     task.Title,
		TierName:  tier.Name,
		TierLabel: tier.Label,
		Price:     tier.Price,
		Custom:    tier.Custom,
		Selected:  selected,
		Page:      svc.Page(),
	})
	redirectBack(w, r, svc.Page())
}

// CartTierHandler switches the tier of a task already in the cart.
func CartTierHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	slug := chi.URLParam(r, "slug")
	_, task, ok := findTask(r.FormValue("service"), slug)
	if !ok {
		http.NotFound(w, r)
		return
	}
	tier := findTier(task, r.FormValue("tier"))

	store := cartStore(w, r)
	taskBus(store).DispatchTierChanged(cart.TierChanged{
		TaskSlug:  task.Slug,
		TierName:  tier.Name,
		TierLabel: tier.Label,
		Price:     tier.Price,
		Custom:    tier.Custom,
	})
	redirectBack(w, r, "/cart")
}

// CartDeliveryHandler switches delivery cadence for one item.
func CartDeliveryHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	store := cartStore(w, r)
	store.SetDelivery(chi.URLParam(r, "slug"), r.FormValue("delivery"))
	redirectBack(w, r, "/cart")
}

// CartModifierHandler bumps a language/country count for one item.
func CartModifierHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	delta, err := strconv.Atoi(r.FormValue("delta"))
	if err != nil {
		http.Error(w, "invalid delta", http.StatusBadRequest)
		return
	}
	store := cartStore(w, r)
	store.AdjustModifier(chi.URLParam(r, "slug"), r.FormValue("field"), delta)
	redirectBack(w, r, "/cart")
}

// CartRemoveHandler drops one item from the cart.
func CartRemoveHandler(w http.ResponseWriter, r *http.Request) {
	store := cartStore(w, r)
	store.Remove(chi.URLParam(r, "slug"))
	redirectBack(w, r, "/cart")
}

// CartClearHandler empties the cart, keeping a one-shot backup for restore.
func CartClearHandler(w http.ResponseWriter, r *http.Request) {
	store := cartStore(w, r)
	store.Clear()
	redirectBack(w, r, "/cart")
}

// CartRestoreHandler undoes the last clear if a backup is still available.
func CartRestoreHandler(w http.ResponseWriter, r *http.Request) {
	store := cartStore(w, r)
	store.Restore()
	redirectBack(w, r, "/cart")
}
