package prefs

import (
	"net/http"
	"strings"
)

// HintHeader is the client hint carrying the browser's color-scheme preference.
const HintHeader = "Sec-CH-Prefers-Color-Scheme"

// ClientHint is a preference source fed by browser requests.
type ClientHint struct {
	*Broadcaster
}

// NewClientHint makes a source with the preference taken from r, light if r has no hint.
func NewClientHint(r *http.Request) *ClientHint {
	dark, _ := ParseHint(r)
	return &ClientHint{Broadcaster: NewBroadcaster(dark)}
}

// Observe updates the preference from the request hint, if present.
func (c *ClientHint) Observe(r *http.Request) {
	if dark, ok := ParseHint(r); ok {
		c.Update(dark)
	}
}

// ParseHint extracts the preference from the request header.
// ok is false when the header is missing or has an unknown value.
func ParseHint(r *http.Request) (prefersDark, ok bool) {
	if r == nil {
		return false, false
	}
	v := strings.Trim(strings.TrimSpace(r.Header.Get(HintHeader)), `"`)
	switch strings.ToLower(v) {
	case "dark":
		return true, true
	case "light":
		return false, true
	}
	return false, false
}
