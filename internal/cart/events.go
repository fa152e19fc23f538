package cart

// TaskToggled is dispatched by selection widgets (task pickers, pricing
// tables) when a service is selected or deselected.
type TaskToggled struct {
	Slug      string
	Title     string
	TierName  string
	TierLabel string
	Price     int
	Custom    bool
	Selected  bool
	// ReplaceAll marks the selection as exclusive for its page: every item
	// already added from Page is removed before this one is added.
	ReplaceAll bool
	Page       string
}

// TierChanged is dispatched when a different tier is chosen for a task
// already in the cart.
type TierChanged struct {
	TaskSlug  string
	TierName  string
	TierLabel string
	Price     int
	Custom    bool
}

// Bus decouples selection widgets from the stores that react to them.
// Dispatch runs handlers synchronously, in subscription order; a dispatch
// completes before the next one starts.
type Bus struct {
	taskHandlers []func(TaskToggled)
	tierHandlers []func(TierChanged)
}

// NewBus returns an empty bus.
func NewBus() *Bus { return &Bus{} }

// SubscribeTaskToggled registers a handler for task selection notifications.
func (b *Bus) SubscribeTaskToggled(fn func(TaskToggled)) {
	b.taskHandlers = append(b.taskHandlers, fn)
}

// SubscribeTierChanged registers a handler for tier change notifications.
func (b *Bus) SubscribeTierChanged(fn func(TierChanged)) {
	b.tierHandlers = append(b.tierHandlers, fn)
}

// DispatchTaskToggled delivers ev to all subscribed handlers in order.
func (b *Bus) DispatchTaskToggled(ev TaskToggled) {
	for _, fn := range b.taskHandlers {
		fn(ev)
	}
}

// DispatchTierChanged delivers ev to all subscribed handlers in order.
func (b *Bus) DispatchTierChanged(ev TierChanged) {
	for _, fn := range b.tierHandlers {
		fn(ev)
	}
}

// Attach subscribes a store's event handlers to the bus.
func (b *Bus) Attach(s *Store) {
	b.SubscribeTaskToggled(s.HandleTaskToggled)
	b.SubscribeTierChanged(s.HandleTierChanged)
}
