// Package server provides the HTTP front end rendering pages with the user's theme.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"
	"github.com/google/uuid"

	"github.com/umputun/themekeeper/app/config"
	"github.com/umputun/themekeeper/app/prefs"
	"github.com/umputun/themekeeper/app/store"
	"github.com/umputun/themekeeper/app/theme"
)

//go:embed templates
var templatesFS embed.FS

const (
	sessionCookie = "themekeeper-session"
	themeCookie   = "theme"
	cookieMaxAge  = 365 * 24 * time.Hour
)

// KVStore defines the storage used for persisted preferences.
// Defined here (consumer side) to allow different store implementations.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// Config holds server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	Version         string
	Site            config.Site
	SessionTTL      time.Duration // idle time after which a session is unmounted
	CleanupInterval time.Duration // how often idle sessions are checked
	StorageTimeout  time.Duration // per-call timeout for preference storage
	PrefsRetention  time.Duration // stored preferences not updated for this long are removed

	// limits
	BodySizeLimit  int64 // max request body size in bytes
	RequestsPerSec int64 // max requests per second
}

// Server represents the HTTP server.
type Server struct {
	store    KVStore
	system   *prefs.System // shared system preference source, nil to use client hints
	cfg      Config
	tmpl     *template.Template
	sessions *sessions
}

// New creates a new Server instance.
// sys is optional, pass nil to follow the browser's client hints instead of the host setting.
func New(st KVStore, sys *prefs.System, cfg Config) (*Server, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{store: st, system: sys, cfg: cfg, tmpl: tmpl}
	s.sessions = newSessions(s.sessionTTL(), s.mountSession)
	return s, nil
}

// Run starts the HTTP server and blocks until context is canceled.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.routes(),
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
	}

	go s.sessions.run(ctx, s.cleanupInterval(), s.pruneStore)

	// graceful shutdown
	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] shutdown error: %v", err)
		}
	}()

	log.Printf("[DEBUG] started server on %s", s.cfg.Address)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// routes configures and returns the HTTP handler with all routes and middleware.
func (s *Server) routes() http.Handler {
	router := routegroup.New(http.NewServeMux())

	router.Use(
		rest.Recoverer(log.Default()),
		rest.RealIP,
		rest.Throttle(s.requestsPerSec()),
		rest.Trace,
		rest.SizeLimit(s.bodySizeLimit()),
		rest.AppInfo("themekeeper", "umputun", s.cfg.Version),
		rest.Ping,
	)

	router.HandleFunc("GET /{$}", s.handlePage)
	router.Mount("/api").Route(func(api *routegroup.Bundle) {
		api.HandleFunc("GET /theme", s.handleGetTheme)
		api.HandleFunc("POST /theme/{mode}", s.handleSetTheme)
	})

	return router
}

// mountSession creates the controller for a new session.
// The root element is seeded from the theme cookie, standing for a prerendered attribute.
func (s *Server) mountSession(id string, r *http.Request) *session {
	root := theme.NewRoot(nil)
	if c, err := r.Cookie(themeCookie); err == nil {
		root.SetAttribute(theme.AttributeName, c.Value)
	}

	sess := &session{id: id, root: root}
	var src theme.PreferenceSource
	if s.system != nil {
		src = s.system
	} else {
		sess.hint = prefs.NewClientHint(r)
		src = sess.hint
	}

	kv := store.NewSession(s.store, id, s.cfg.StorageTimeout)
	sess.ctrl = theme.New(kv, root, src, theme.Config{DisableDarkMode: s.cfg.Site.ThemeConfig.DisableDarkMode})
	sess.ctrl.Mount()
	return sess
}

// session returns the caller's session, issuing a new session cookie if needed.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session {
	id := ""
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			id = c.Value
		}
	}
	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			MaxAge:   int(cookieMaxAge.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return s.sessions.get(id, r)
}

// pruneStore removes preferences of sessions whose cookie has expired.
// The session cookie is never refreshed, so a value not updated within its lifetime is unreachable.
func (s *Server) pruneStore(ctx context.Context) {
	pruneCtx, cancel := context.WithTimeout(ctx, s.cfg.StorageTimeout+10*time.Second)
	defer cancel()
	n, err := s.store.Prune(pruneCtx, time.Now().Add(-s.prefsRetention()))
	if err != nil {
		log.Printf("[WARN] failed to prune stored preferences: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[INFO] pruned %d stored preferences", n)
	}
}

// prefsRetention defaults to the session cookie lifetime.
func (s *Server) prefsRetention() time.Duration {
	if s.cfg.PrefsRetention > 0 {
		return s.cfg.PrefsRetention
	}
	return cookieMaxAge
}

// bodySizeLimit returns the configured body size limit, or default 64KB if not set.
func (s *Server) bodySizeLimit() int64 {
	if s.cfg.BodySizeLimit > 0 {
		return s.cfg.BodySizeLimit
	}
	return 64 * 1024
}

// requestsPerSec returns the configured requests per second limit, or default 1000 if not set.
func (s *Server) requestsPerSec() int64 {
	if s.cfg.RequestsPerSec > 0 {
		return s.cfg.RequestsPerSec
	}
	return 1000
}

func (s *Server) sessionTTL() time.Duration {
	if s.cfg.SessionTTL > 0 {
		return s.cfg.SessionTTL
	}
	return 30 * time.Minute
}

func (s *Server) cleanupInterval() time.Duration {
	if s.cfg.CleanupInterval > 0 {
		return s.cfg.CleanupInterval
	}
	return time.Minute
}
