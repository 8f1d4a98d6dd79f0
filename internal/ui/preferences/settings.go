package preferences

// Theme selects the popup color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Valid reports whether the theme is one of the known variants.
func (theme Theme) Valid() bool {
	return theme == ThemeDark || theme == ThemeLight
}

// Settings defines editable user preferences.
type Settings struct {
	Theme         Theme
	AutoOpenPopup bool
	LaunchAtLogin bool
}

// DefaultSettings returns the out-of-the-box preferences.
func DefaultSettings() Settings {
	return Settings{
		Theme:         ThemeDark,
		AutoOpenPopup: true,
		LaunchAtLogin: false,
	}
}
