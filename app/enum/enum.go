// Package enum defines the value types shared across packages.
package enum

// Theme is a theme token as written to the data-theme attribute and to storage.
// Tokens other than ThemeLight and ThemeDark are legal values and read as light.
type Theme string

const (
	ThemeLight Theme = ""
	ThemeDark  Theme = "dark"
)

// ParseTheme converts a user-facing name into a token.
// Accepts "", "light" and "dark", case-sensitive. Returns false for anything else.
func ParseTheme(s string) (Theme, bool) {
	switch s {
	case "", "light":
		return ThemeLight, true
	case "dark":
		return ThemeDark, true
	}
	return Theme(s), false
}

// ThemeFromPreference maps a "prefers dark" flag to a theme.
func ThemeFromPreference(prefersDark bool) Theme {
	if prefersDark {
		return ThemeDark
	}
	return ThemeLight
}

// IsDark reports whether the token is the dark one.
func (t Theme) IsDark() bool { return t == ThemeDark }

// Toggle returns the opposite theme (dark↔light). Unknown tokens toggle to dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Token returns the raw token.
func (t Theme) Token() string { return string(t) }

// String returns a display name, "light" for the empty token.
func (t Theme) String() string {
	if t == ThemeLight {
		return "light"
	}
	return string(t)
}
