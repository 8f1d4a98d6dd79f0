package popup

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"pomodoro/internal/core/model"
)

// QuickDurations are the preset session lengths, in minutes.
var QuickDurations = []int{5, 15, 25, 45, 60}

// Controller is the popup's channel to the timekeeper. A nil error is the
// acknowledgement; the view only updates after one.
type Controller interface {
	State() model.TimerState
	StartRun(remaining int) error
	StopRun() error
	ResetRun() error
	SetDuration(minutes int) error
}

// Capabilities selects which optional popup features are built, replacing
// the need for parallel popup variants.
type Capabilities struct {
	HasThemeToggle          bool
	HasAutoOpenToggle       bool
	HasDebouncedCustomInput bool
}

// Callbacks defines handlers for the settings shortcuts embedded in the
// popup. Only used for capabilities that are enabled.
type Callbacks struct {
	OnToggleTheme     func()
	OnAutoOpenChanged func(bool)
}

// Window is the popup timer view. It never counts down on its own: every
// render comes from the controller's state or from an external SetState.
type Window struct {
	window        fyne.Window
	controller    Controller
	caps          Capabilities
	callbacks     Callbacks
	state         model.TimerState
	dial          *Dial
	startButton   *widget.Button
	stopButton    *widget.Button
	resetButton   *widget.Button
	quickButtons  []*widget.Button
	customEntry   *widget.Entry
	autoOpenCheck *widget.Check
	debouncer     *Debouncer
}

// New creates the popup window. It stays hidden until Show is called.
func New(app fyne.App, controller Controller, caps Capabilities, callbacks Callbacks) *Window {
	window := app.NewWindow("Pomodoro")

	popup := &Window{
		window:     window,
		controller: controller,
		caps:       caps,
		callbacks:  callbacks,
		state:      controller.State(),
		dial:       NewDial(),
		debouncer:  NewDebouncer(DefaultDebounceDuration),
	}

	popup.startButton = widget.NewButton("Start", popup.handleStart)
	popup.stopButton = widget.NewButton("Stop", popup.handleStop)
	popup.resetButton = widget.NewButton("Reset", popup.handleReset)

	quickRow := container.NewGridWithColumns(len(QuickDurations))
	for _, minutes := range QuickDurations {
		minutes := minutes
		button := widget.NewButton(fmt.Sprintf("%d", minutes), func() {
			popup.handleQuickSelect(minutes)
		})
		popup.quickButtons = append(popup.quickButtons, button)
		quickRow.Add(button)
	}

	content := container.NewVBox(
		popup.dial,
		widget.NewLabelWithStyle("Minutes", fyne.TextAlignCenter, fyne.TextStyle{}),
		quickRow,
	)

	if caps.HasDebouncedCustomInput {
		popup.customEntry = widget.NewEntry()
		popup.customEntry.SetPlaceHolder("Custom (1-180)")
		popup.customEntry.OnChanged = popup.handleCustomInput
		content.Add(popup.customEntry)
	}

	content.Add(container.NewGridWithColumns(3, popup.startButton, popup.stopButton, popup.resetButton))

	if caps.HasThemeToggle {
		content.Add(widget.NewButton("Toggle theme", func() {
			if popup.callbacks.OnToggleTheme != nil {
				popup.callbacks.OnToggleTheme()
			}
		}))
	}
	if caps.HasAutoOpenToggle {
		popup.autoOpenCheck = widget.NewCheck("Open popup when timer completes", func(checked bool) {
			if popup.callbacks.OnAutoOpenChanged != nil {
				popup.callbacks.OnAutoOpenChanged(checked)
			}
		})
		content.Add(popup.autoOpenCheck)
	}

	window.SetContent(container.NewPadded(content))
	window.Resize(fyne.NewSize(300, 420))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	popup.renderState()
	return popup
}

// Show re-reads the authoritative state before presenting the window, so a
// popup reopened after any amount of time shows the true position.
func (popup *Window) Show() {
	popup.state = popup.controller.State()
	popup.renderState()
	popup.window.Show()
	popup.window.RequestFocus()
}

// SetState applies an externally observed state (timekeeper events, store
// change notifications) into the view. Safe to call from any goroutine.
func (popup *Window) SetState(state model.TimerState) {
	fyne.Do(func() {
		popup.state = state
		popup.renderState()
	})
}

// SetAutoOpen reflects the persisted auto-open preference in the popup
// shortcut. Idempotent against its own callback.
func (popup *Window) SetAutoOpen(enabled bool) {
	if popup.autoOpenCheck != nil {
		popup.autoOpenCheck.SetChecked(enabled)
	}
}

func (popup *Window) handleStart() {
	startValue := popup.state.TimeRemaining
	if startValue == 0 {
		// A completed session restarts from the full duration.
		startValue = popup.state.Duration * 60
	}
	if err := popup.controller.StartRun(startValue); err != nil {
		log.Printf("start run: %v", err)
		return
	}
	popup.state = popup.controller.State()
	popup.renderState()
}

func (popup *Window) handleStop() {
	if err := popup.controller.StopRun(); err != nil {
		log.Printf("stop run: %v", err)
		return
	}
	popup.state = popup.controller.State()
	popup.renderState()
}

func (popup *Window) handleReset() {
	if err := popup.controller.ResetRun(); err != nil {
		log.Printf("reset run: %v", err)
		return
	}
	popup.state = popup.controller.State()
	popup.renderState()
}

func (popup *Window) handleQuickSelect(minutes int) {
	if err := popup.controller.SetDuration(minutes); err != nil {
		// Rejected while running; the buttons are disabled then anyway.
		return
	}
	popup.state = popup.controller.State()
	popup.renderState()
}

func (popup *Window) handleCustomInput(text string) {
	popup.debouncer.Trigger(func() {
		minutes, ok := ParseDurationInput(text)
		if !ok {
			return
		}
		if err := popup.controller.SetDuration(minutes); err != nil {
			return
		}
		popup.SetState(popup.controller.State())
	})
}

func (popup *Window) renderState() {
	state := popup.state

	total := state.Duration * 60
	fraction := 0.0
	if total > 0 {
		fraction = float64(state.TimeRemaining) / float64(total)
	}
	popup.dial.SetProgress(fraction, FormatClock(state.TimeRemaining))

	if state.IsRunning {
		popup.startButton.Disable()
		popup.stopButton.Enable()
	} else {
		popup.startButton.Enable()
		popup.stopButton.Disable()
	}

	for _, button := range popup.quickButtons {
		if state.IsRunning {
			button.Disable()
		} else {
			button.Enable()
		}
	}
	if popup.customEntry != nil {
		if state.IsRunning {
			popup.customEntry.Disable()
		} else {
			popup.customEntry.Enable()
		}
	}
}

// ParseDurationInput validates a custom duration entry: numeric and within
// the allowed session range. Anything else leaves state untouched.
func ParseDurationInput(text string) (int, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, false
	}
	minutes, err := strconv.Atoi(trimmed)
	if err != nil || !model.ValidDuration(minutes) {
		return 0, false
	}
	return minutes, true
}

// FormatClock renders remaining seconds as MM:SS.
func FormatClock(remainingSeconds int) string {
	if remainingSeconds < 0 {
		remainingSeconds = 0
	}
	return fmt.Sprintf("%02d:%02d", remainingSeconds/60, remainingSeconds%60)
}
