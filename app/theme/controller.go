// Package theme implements the light/dark theme controller.
// The controller keeps the active theme, persists explicit choices, mirrors the theme
// into the data-theme attribute of a render target and follows the system color-scheme
// preference when no choice was stored.
package theme

import (
	"sync"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/themekeeper/app/enum"
)

//go:generate moq -out mocks/kvstore.go -pkg mocks -skip-ensure -fmt goimports . KeyValueStore
//go:generate moq -out mocks/preferencesource.go -pkg mocks -skip-ensure -fmt goimports . PreferenceSource

const (
	// StorageKey is the key the theme token is persisted under.
	StorageKey = "theme"
	// AttributeName is the root attribute style sheets select on.
	AttributeName = "data-theme"
)

// KeyValueStore persists the chosen theme between mounts.
// Get returns ok=false without error when the key is absent.
type KeyValueStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// RenderTarget is the root node of the rendered page.
type RenderTarget interface {
	Attribute(name string) (string, bool)
	SetAttribute(name, value string)
}

// PreferenceSource reports the system "prefers dark color scheme" setting.
// Subscribe returns a function that detaches the callback.
type PreferenceSource interface {
	PrefersDark() bool
	Subscribe(fn func(prefersDark bool)) (cancel func())
}

// Config holds controller configuration taken from the site config.
type Config struct {
	DisableDarkMode bool
}

type observer struct {
	id int
	fn func(enum.Theme)
}

// Controller owns the theme state of one mounted page.
// Transitions are serialized; observers run synchronously after each change,
// in registration order, with the attribute sync always last.
// Observers must not call mutators or Close.
type Controller struct {
	store  KeyValueStore
	target RenderTarget
	source PreferenceSource
	cfg    Config

	mu        sync.Mutex // serializes transitions
	mounted   bool
	closed    bool
	cancelSub func()

	stateMu sync.RWMutex
	state   enum.Theme

	obsMu     sync.Mutex
	observers []observer
	nextObsID int
}

// New makes a controller. Any of st, rt and ps may be nil.
// The initial state is read from the render target attribute, light if there is none.
func New(st KeyValueStore, rt RenderTarget, ps PreferenceSource, cfg Config) *Controller {
	initial := enum.ThemeLight
	if rt != nil {
		if v, ok := rt.Attribute(AttributeName); ok {
			initial = enum.Theme(v)
		}
	}
	return &Controller{store: st, target: rt, source: ps, cfg: cfg, state: initial}
}

// Mount activates the controller: syncs the attribute, restores the stored theme and
// subscribes to preference changes. Repeated calls and calls after Close do nothing.
func (c *Controller) Mount() {
	c.mu.Lock()
	if c.mounted || c.closed {
		c.mu.Unlock()
		return
	}
	c.mounted = true
	c.notify(c.Theme())

	if c.cfg.DisableDarkMode {
		c.mu.Unlock()
		return
	}

	restored := c.restore()
	c.mu.Unlock()

	if c.source == nil {
		return
	}
	// subscribe before reading the current preference, a change landing in between is not lost
	cancel := c.source.Subscribe(c.onPreference)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		cancel()
		return
	}
	c.cancelSub = cancel
	if !restored {
		c.transition(enum.ThemeFromPreference(c.source.PrefersDark()), true)
	}
}

// Close releases the preference subscription. Safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	cancel := c.cancelSub
	c.cancelSub = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Theme returns the current token, possibly an unrecognized one restored from storage.
func (c *Controller) Theme() enum.Theme {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// IsDarkTheme reports whether the dark theme is active.
func (c *Controller) IsDarkTheme() bool {
	return c.Theme().IsDark()
}

// SetLightTheme switches to the light theme and persists the choice.
func (c *Controller) SetLightTheme() {
	c.set(enum.ThemeLight)
}

// SetDarkTheme switches to the dark theme and persists the choice.
func (c *Controller) SetDarkTheme() {
	c.set(enum.ThemeDark)
}

// Toggle switches between light and dark and returns the new theme.
func (c *Controller) Toggle() enum.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.Theme().Toggle()
	c.transition(next, true)
	return next
}

// OnChange registers fn to be called with the new theme after every change.
// The returned function removes it.
func (c *Controller) OnChange(fn func(enum.Theme)) (remove func()) {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	c.nextObsID++
	id := c.nextObsID
	c.observers = append(c.observers, observer{id: id, fn: fn})
	return func() {
		c.obsMu.Lock()
		defer c.obsMu.Unlock()
		for i, o := range c.observers {
			if o.id == id {
				c.observers = append(c.observers[:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) set(t enum.Theme) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transition(t, true)
}

func (c *Controller) onPreference(prefersDark bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.transition(enum.ThemeFromPreference(prefersDark), true)
}

// transition sets the state, optionally persists it and notifies on change.
// Caller holds c.mu.
func (c *Controller) transition(t enum.Theme, persist bool) {
	c.stateMu.Lock()
	prev := c.state
	c.state = t
	c.stateMu.Unlock()

	if persist {
		c.persist(t)
	}
	if prev != t {
		c.notify(t)
	}
}

// restore applies the stored theme, returns false if nothing usable was stored.
// Caller holds c.mu.
func (c *Controller) restore() bool {
	if c.store == nil {
		return false
	}
	v, ok, err := c.store.Get(StorageKey)
	if err != nil {
		log.Printf("[WARN] failed to read stored theme: %v", err)
		return false
	}
	if !ok {
		return false
	}
	c.transition(enum.Theme(v), false)
	return true
}

func (c *Controller) persist(t enum.Theme) {
	if c.store == nil {
		return
	}
	if err := c.store.Set(StorageKey, t.Token()); err != nil {
		log.Printf("[WARN] failed to persist theme %q: %v", t, err)
	}
}

// notify calls observers in registration order, then syncs the render target.
func (c *Controller) notify(t enum.Theme) {
	c.obsMu.Lock()
	obs := make([]observer, len(c.observers))
	copy(obs, c.observers)
	c.obsMu.Unlock()

	for _, o := range obs {
		o.fn(t)
	}
	if c.target != nil {
		c.target.SetAttribute(AttributeName, t.Token())
	}
}
