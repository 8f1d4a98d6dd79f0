package preferences

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window    fyne.Window
	settings  Settings
	onSave    func(Settings)
	themePick *widget.Select
	autoOpen  *widget.Check
	autostart *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Pomodoro Settings")

	themePick := widget.NewSelect([]string{string(ThemeDark), string(ThemeLight)}, nil)
	themePick.SetSelected(string(settings.Theme))

	autoOpen := widget.NewCheck("Open popup when timer completes", nil)
	autoOpen.SetChecked(settings.AutoOpenPopup)

	autostart := widget.NewCheck("Launch at login", nil)
	autostart.SetChecked(settings.LaunchAtLogin)

	form := container.NewVBox(
		widget.NewLabelWithStyle("General", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Theme"), themePick),
		autoOpen,
		autostart,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, buttons, nil, nil, form)
	window.SetContent(content)
	window.Resize(fyne.NewSize(360, 260))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	prefs := &Window{
		window:    window,
		settings:  settings,
		onSave:    onSave,
		themePick: themePick,
		autoOpen:  autoOpen,
		autostart: autostart,
	}

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.themePick.SetSelected(string(settings.Theme))
	prefs.autoOpen.SetChecked(settings.AutoOpenPopup)
	prefs.autostart.SetChecked(settings.LaunchAtLogin)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if theme := Theme(prefs.themePick.Selected); theme.Valid() {
		settings.Theme = theme
	}
	settings.AutoOpenPopup = prefs.autoOpen.Checked
	settings.LaunchAtLogin = prefs.autostart.Checked

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}
