package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/themekeeper/app/config"
	"github.com/umputun/themekeeper/app/prefs"
	"github.com/umputun/themekeeper/app/store"
)

const testSessionID = "5f0c6a3e-8d4b-4c1e-9a55-2b7e1d4f9c10"

func TestServer_Page(t *testing.T) {
	srv, _ := newTestServer(t, config.Site{Title: "Test Docs"}, nil)
	h := srv.routes()

	t.Run("new visitor gets session and light theme", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, prefs.HintHeader, rec.Header().Get("Accept-CH"))
		assert.Contains(t, rec.Body.String(), `<html lang="en" data-theme="">`)
		assert.Contains(t, rec.Body.String(), "<title>Test Docs</title>")
		assert.Contains(t, rec.Body.String(), `id="theme-toggle"`)
		require.NotNil(t, findCookie(rec, sessionCookie))
	})

	t.Run("invalid session cookie is replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "not-a-uuid"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		c := findCookie(rec, sessionCookie)
		require.NotNil(t, c)
		assert.NotEqual(t, "not-a-uuid", c.Value)
	})
}

func TestServer_SetTheme(t *testing.T) {
	srv, st := newTestServer(t, config.Site{}, nil)
	h := srv.routes()

	tests := []struct {
		mode     string
		expected themeResponse
	}{
		{"dark", themeResponse{Theme: "dark", Token: "dark", IsDark: true}},
		{"light", themeResponse{Theme: "light", Token: "", IsDark: false}},
		{"toggle", themeResponse{Theme: "dark", Token: "dark", IsDark: true}},
		{"toggle", themeResponse{Theme: "light", Token: "", IsDark: false}},
		{"dark", themeResponse{Theme: "dark", Token: "dark", IsDark: true}},
	}

	for _, tc := range tests {
		t.Run(tc.mode, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodPost, "/api/theme/"+tc.mode, http.NoBody)))
			require.Equal(t, http.StatusOK, rec.Code)

			var resp themeResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.expected, resp)

			c := findCookie(rec, themeCookie)
			require.NotNil(t, c)
			assert.Equal(t, tc.expected.Token, c.Value)

			stored, err := st.Get(context.Background(), testSessionID+"/theme")
			require.NoError(t, err)
			assert.Equal(t, tc.expected.Token, stored)
		})
	}

	t.Run("page reflects last change", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/", http.NoBody)))
		assert.Contains(t, rec.Body.String(), `data-theme="dark"`)
		assert.Contains(t, rec.Body.String(), "Current theme: dark")
	})

	t.Run("get theme", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/api/theme", http.NoBody)))
		var resp themeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.IsDark)
	})

	for _, mode := range []string{"sepia", "Dark", "LIGHT", "Toggle"} {
		t.Run("unknown mode "+mode, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodPost, "/api/theme/"+mode, http.NoBody)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			stored, err := st.Get(context.Background(), testSessionID+"/theme")
			require.NoError(t, err)
			assert.Equal(t, "dark", stored, "rejected mode leaves the theme unchanged")
		})
	}
}

func TestServer_PruneStore(t *testing.T) {
	srv, st := newTestServer(t, config.Site{}, nil)
	ctx := context.Background()
	assert.Equal(t, cookieMaxAge, srv.prefsRetention(), "retention defaults to cookie lifetime")

	h := srv.routes()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodPost, "/api/theme/dark", http.NoBody)))
	require.Equal(t, http.StatusOK, rec.Code)

	srv.pruneStore(ctx)
	stored, err := st.Get(ctx, testSessionID+"/theme")
	require.NoError(t, err, "recent value kept")
	assert.Equal(t, "dark", stored)

	srv.cfg.PrefsRetention = time.Millisecond
	time.Sleep(20 * time.Millisecond)
	srv.pruneStore(ctx)
	_, err = st.Get(ctx, testSessionID+"/theme")
	assert.ErrorIs(t, err, store.ErrNotFound, "stale value pruned")
}

func TestServer_RestoresStoredTheme(t *testing.T) {
	srv, st := newTestServer(t, config.Site{}, nil)
	require.NoError(t, st.Set(context.Background(), testSessionID+"/theme", "dark"))

	req := withSession(httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	req.AddCookie(&http.Cookie{Name: themeCookie, Value: ""})
	req.Header.Set(prefs.HintHeader, "light")
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	assert.Contains(t, rec.Body.String(), `data-theme="dark"`, "stored theme wins over cookie and hint")
}

func TestServer_ClientHint(t *testing.T) {
	srv, st := newTestServer(t, config.Site{}, nil)
	h := srv.routes()

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/theme", http.NoBody))
	req.Header.Set(prefs.HintHeader, "dark")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var resp themeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsDark, "no stored value follows browser preference")

	stored, err := st.Get(context.Background(), testSessionID+"/theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", stored)

	req = withSession(httptest.NewRequest(http.MethodGet, "/api/theme", http.NoBody))
	req.Header.Set(prefs.HintHeader, "light")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.IsDark, "preference change switches the theme")
}

func TestServer_DisableDarkMode(t *testing.T) {
	site := config.Site{Title: "Docs", ThemeConfig: config.ThemeConfig{DisableDarkMode: true}}
	srv, st := newTestServer(t, site, nil)
	require.NoError(t, st.Set(context.Background(), testSessionID+"/theme", "dark"))

	req := withSession(httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	req.Header.Set(prefs.HintHeader, "dark")
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, `data-theme=""`)
	assert.NotContains(t, body, `id="theme-toggle"`)

	t.Run("cookie seeds prerendered theme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		req.AddCookie(&http.Cookie{Name: themeCookie, Value: "dark"})
		rec := httptest.NewRecorder()
		srv.routes().ServeHTTP(rec, req)
		assert.Contains(t, rec.Body.String(), `data-theme="dark"`)
	})
}

func TestServer_SystemSource(t *testing.T) {
	dark := false
	sys := prefs.NewSystem(context.Background(), func(context.Context) (bool, error) { return dark, nil }, time.Hour)
	srv, _ := newTestServer(t, config.Site{}, sys)
	h := srv.routes()

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/theme", http.NoBody))
	req.Header.Set(prefs.HintHeader, "dark")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var resp themeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.IsDark, "client hint ignored with system source")
	assert.Equal(t, 1, sys.Subscribers())

	sys.Update(true)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/api/theme", http.NoBody)))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsDark)

	srv.sessions.closeAll()
	assert.Equal(t, 0, sys.Subscribers(), "closed sessions unsubscribe")
}

func TestSessions_Cleanup(t *testing.T) {
	sys := prefs.NewSystem(context.Background(), func(context.Context) (bool, error) { return false, nil }, time.Hour)
	srv, _ := newTestServer(t, config.Site{}, sys)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	srv.sessions.now = func() time.Time { return now }

	srv.sessions.get("a", httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	now = now.Add(20 * time.Minute)
	srv.sessions.get("b", httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	assert.Equal(t, 2, sys.Subscribers())

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, srv.sessions.cleanup())
	assert.Equal(t, 1, srv.sessions.len())
	assert.Equal(t, 1, sys.Subscribers())

	now = now.Add(time.Hour)
	assert.Equal(t, 1, srv.sessions.cleanup())
	assert.Equal(t, 0, sys.Subscribers())
}

func TestServer_Run(t *testing.T) {
	srv, _ := newTestServer(t, config.Site{}, nil)
	srv.cfg.Address = "127.0.0.1:0"
	srv.cfg.ShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "server didn't stop")
	}
}

func newTestServer(t *testing.T, site config.Site, sys *prefs.System) (*Server, *store.Store) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	if site.Title == "" {
		site.Title = "Docs"
	}
	srv, err := New(st, sys, Config{Site: site, SessionTTL: 30 * time.Minute, StorageTimeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(srv.sessions.closeAll)
	return srv, st
}

func withSession(r *http.Request) *http.Request {
	r.AddCookie(&http.Cookie{Name: sessionCookie, Value: testSessionID})
	return r
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
