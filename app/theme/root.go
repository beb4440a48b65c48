package theme

import "sync"

// Root is an in-memory render target standing for the root element of a page.
type Root struct {
	mu    sync.RWMutex
	attrs map[string]string
}

// NewRoot makes a root element with the given attributes, nil for none.
func NewRoot(attrs map[string]string) *Root {
	r := &Root{attrs: make(map[string]string, len(attrs))}
	for k, v := range attrs {
		r.attrs[k] = v
	}
	return r
}

// Attribute returns the attribute value and whether it is present.
func (r *Root) Attribute(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.attrs[name]
	return v, ok
}

// SetAttribute sets the attribute, an empty value keeps it present but valueless.
func (r *Root) SetAttribute(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attrs[name] = value
}
