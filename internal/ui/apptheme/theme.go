package apptheme

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"pomodoro/internal/ui/preferences"
)

// For returns a Fyne theme pinned to the variant the user picked, ignoring
// the OS preference.
func For(selected preferences.Theme) fyne.Theme {
	variant := theme.VariantDark
	if selected == preferences.ThemeLight {
		variant = theme.VariantLight
	}
	return &forcedVariant{base: theme.DefaultTheme(), variant: variant}
}

type forcedVariant struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
}

func (t *forcedVariant) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.base.Color(name, t.variant)
}

func (t *forcedVariant) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

func (t *forcedVariant) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *forcedVariant) Size(name fyne.ThemeSizeName) float32 {
	return t.base.Size(name)
}
