package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/themekeeper/app/prefs"
	"github.com/umputun/themekeeper/app/theme"
)

// session is one mounted page: a controller with its root element and preference source.
type session struct {
	id   string
	ctrl *theme.Controller
	root *theme.Root
	hint *prefs.ClientHint // nil when the shared system source is used

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *session) expired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen) > ttl
}

// mountFunc creates and mounts a session for the id and the request that opened it.
type mountFunc func(id string, r *http.Request) *session

// sessions keeps mounted sessions and unmounts the idle ones.
type sessions struct {
	mu    sync.Mutex
	items map[string]*session
	ttl   time.Duration
	mount mountFunc
	now   func() time.Time
}

func newSessions(ttl time.Duration, mount mountFunc) *sessions {
	return &sessions{items: make(map[string]*session), ttl: ttl, mount: mount, now: time.Now}
}

// get returns the session for id, mounting a new one on first use.
// Mounting runs outside the lock; if two requests race on a new id the first insert wins
// and the other mount is closed. For existing sessions the request's client hint is fed
// to the preference source.
func (ss *sessions) get(id string, r *http.Request) *session {
	now := ss.now()
	ss.mu.Lock()
	sess, ok := ss.items[id]
	ss.mu.Unlock()

	if !ok {
		fresh := ss.mount(id, r)
		ss.mu.Lock()
		if existing, found := ss.items[id]; found {
			sess, ok = existing, true
		} else {
			ss.items[id] = fresh
			sess = fresh
		}
		ss.mu.Unlock()

		if sess != fresh {
			fresh.ctrl.Close()
		} else {
			log.Printf("[DEBUG] mounted session %s, theme=%s", id, sess.ctrl.Theme())
		}
	}

	sess.touch(now)
	if ok && sess.hint != nil {
		sess.hint.Observe(r)
	}
	return sess
}

// cleanup closes sessions idle longer than ttl, returns the number closed.
func (ss *sessions) cleanup() int {
	now := ss.now()
	var expired []*session
	ss.mu.Lock()
	for id, sess := range ss.items {
		if sess.expired(now, ss.ttl) {
			expired = append(expired, sess)
			delete(ss.items, id)
		}
	}
	ss.mu.Unlock()

	for _, sess := range expired {
		sess.ctrl.Close()
	}
	return len(expired)
}

// closeAll unmounts every session.
func (ss *sessions) closeAll() {
	ss.mu.Lock()
	items := ss.items
	ss.items = make(map[string]*session)
	ss.mu.Unlock()

	for _, sess := range items {
		sess.ctrl.Close()
	}
}

func (ss *sessions) len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.items)
}

// run removes idle sessions every interval, then calls onTick if set.
// All sessions are closed when ctx is done.
func (ss *sessions) run(ctx context.Context, interval time.Duration, onTick func(ctx context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ss.closeAll()
			return
		case <-ticker.C:
			if n := ss.cleanup(); n > 0 {
				log.Printf("[INFO] closed %d idle sessions", n)
			}
			if onTick != nil {
				onTick(ctx)
			}
		}
	}
}
