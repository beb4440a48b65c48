// Package prefs provides sources of the system color-scheme preference.
// Every source reports "prefers dark" and fans changes out to subscribers.
package prefs

import "sync"

// Broadcaster holds the current preference and notifies subscribers when it changes.
// Callbacks run on the goroutine calling Update, outside the state lock, and updates are
// delivered one at a time in the order they were applied. Callbacks must not call Update.
type Broadcaster struct {
	deliverMu sync.Mutex // serializes Update, keeps delivery order equal to apply order

	mu     sync.Mutex
	dark   bool
	subs   map[int]func(bool)
	nextID int
}

// NewBroadcaster makes a broadcaster with the initial preference.
func NewBroadcaster(prefersDark bool) *Broadcaster {
	return &Broadcaster{dark: prefersDark, subs: make(map[int]func(bool))}
}

// PrefersDark returns the current preference.
func (b *Broadcaster) PrefersDark() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dark
}

// Subscribe registers fn for change notifications. The returned cancel func is idempotent.
func (b *Broadcaster) Subscribe(fn func(prefersDark bool)) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
		})
	}
}

// Update sets the preference and notifies subscribers if it changed.
// Returns true if subscribers were notified.
func (b *Broadcaster) Update(prefersDark bool) bool {
	b.deliverMu.Lock()
	defer b.deliverMu.Unlock()

	b.mu.Lock()
	if b.dark == prefersDark {
		b.mu.Unlock()
		return false
	}
	b.dark = prefersDark
	subs := make([]func(bool), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.Unlock()

	for _, fn := range subs {
		fn(prefersDark)
	}
	return true
}

// Subscribers returns the number of active subscriptions.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
