package server

import (
	"net/http"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"

	"github.com/umputun/themekeeper/app/enum"
	"github.com/umputun/themekeeper/app/prefs"
	"github.com/umputun/themekeeper/app/theme"
)

// pageData holds data passed to the page template.
type pageData struct {
	Title           string
	Theme           string // data-theme attribute value
	HasTheme        bool   // attribute present
	IsDark          bool
	DisableDarkMode bool
}

// themeResponse is the JSON view of the theme state.
type themeResponse struct {
	Theme  string `json:"theme"`
	Token  string `json:"token"`
	IsDark bool   `json:"is_dark"`
}

// handlePage renders the page with the session's root attribute.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	attr, ok := sess.root.Attribute(theme.AttributeName)

	// ask browsers to send the color-scheme client hint on following requests
	w.Header().Set("Accept-CH", prefs.HintHeader)
	w.Header().Set("Vary", prefs.HintHeader)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	data := pageData{
		Title:           s.cfg.Site.Title,
		Theme:           attr,
		HasTheme:        ok,
		IsDark:          sess.ctrl.IsDarkTheme(),
		DisableDarkMode: s.cfg.Site.ThemeConfig.DisableDarkMode,
	}
	if err := s.tmpl.ExecuteTemplate(w, "page.html", data); err != nil {
		log.Printf("[ERROR] failed to execute template: %v", err)
	}
}

// handleGetTheme returns the session's current theme.
func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	rest.RenderJSON(w, newThemeResponse(sess.ctrl.Theme()))
}

// handleSetTheme switches the session's theme, mode is "light", "dark" or "toggle".
func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	mode := r.PathValue("mode")
	var target enum.Theme
	if mode != "toggle" {
		parsed, ok := enum.ParseTheme(mode)
		if !ok || mode == "" {
			rest.SendErrorJSON(w, r, log.Default(), http.StatusBadRequest, nil, "unknown theme mode")
			return
		}
		target = parsed
	}

	sess := s.session(w, r)
	switch {
	case mode == "toggle":
		sess.ctrl.Toggle()
	case target.IsDark():
		sess.ctrl.SetDarkTheme()
	default:
		sess.ctrl.SetLightTheme()
	}

	current := sess.ctrl.Theme()
	http.SetCookie(w, &http.Cookie{
		Name:     themeCookie,
		Value:    current.Token(),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	log.Printf("[DEBUG] session %s switched theme to %s", sess.id, current)
	rest.RenderJSON(w, newThemeResponse(current))
}

func newThemeResponse(t enum.Theme) themeResponse {
	return themeResponse{Theme: t.String(), Token: t.Token(), IsDark: t.IsDark()}
}
