package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pomotray/internal/core/model"
)

// Window handles the settings UI. Values entered here go straight to the
// session, which clamps them again on entry.
type Window struct {
	window    fyne.Window
	config    model.TimerConfig
	onSave    func(model.TimerConfig)
	workMin   *widget.Entry
	breakMin  *widget.Entry
	longMin   *widget.Entry
	intervals *widget.Entry
	volume    *widget.Slider
}

// New creates a preferences window.
func New(app fyne.App, config model.TimerConfig, onSave func(model.TimerConfig)) *Window {
	window := app.NewWindow("Pomotray Settings")

	workMin := widget.NewEntry()
	breakMin := widget.NewEntry()
	longMin := widget.NewEntry()
	intervals := widget.NewEntry()

	volume := widget.NewSlider(0, 1)
	volume.Step = 0.05

	form := container.NewVBox(
		widget.NewLabelWithStyle("Intervals", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Work"), workMin, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Break"), breakMin, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break"), longMin, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Work intervals until long break"), intervals),
		widget.NewLabelWithStyle("Sound", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Volume"),
		volume,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(380, 360))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	prefs := &Window{
		window:    window,
		config:    config,
		onSave:    onSave,
		workMin:   workMin,
		breakMin:  breakMin,
		longMin:   longMin,
		intervals: intervals,
		volume:    volume,
	}
	prefs.UpdateConfig(config)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateConfig(prefs.config)
		window.Hide()
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateConfig replaces the window values.
func (prefs *Window) UpdateConfig(config model.TimerConfig) {
	prefs.config = config
	prefs.workMin.SetText(fmt.Sprintf("%d", int(config.WorkDuration.Minutes())))
	prefs.breakMin.SetText(fmt.Sprintf("%d", int(config.BreakDuration.Minutes())))
	prefs.longMin.SetText(fmt.Sprintf("%d", int(config.LongBreakDuration.Minutes())))
	prefs.intervals.SetText(fmt.Sprintf("%d", config.IntervalsUntilLongBreak))
	prefs.volume.Value = config.SoundVolume
	prefs.volume.Refresh()
}

func (prefs *Window) handleSave() {
	config := prefs.config

	if minutes, ok := parsePositiveInt(prefs.workMin.Text); ok {
		config.WorkDuration = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.breakMin.Text); ok {
		config.BreakDuration = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.longMin.Text); ok {
		config.LongBreakDuration = time.Duration(minutes) * time.Minute
	}
	if count, ok := parsePositiveInt(prefs.intervals.Text); ok {
		config.IntervalsUntilLongBreak = count
	}
	config.SoundVolume = prefs.volume.Value

	config = config.Clamp()
	prefs.config = config
	prefs.UpdateConfig(config)
	if prefs.onSave != nil {
		prefs.onSave(config)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
