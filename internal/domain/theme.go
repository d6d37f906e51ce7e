package domain

// Theme is the persisted UI colour preference.
type Theme string

const (
	// ThemeLight is the default theme.
	ThemeLight Theme = "light"

	// ThemeDark is the dark theme.
	ThemeDark Theme = "dark"
)

// ParseTheme maps a stored value to a Theme. Anything other than "dark" is light.
func ParseTheme(s string) Theme {
	if s == string(ThemeDark) {
		return ThemeDark
	}

	return ThemeLight
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}

	return ThemeDark
}

// Valid reports whether t is one of the two known themes.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}
