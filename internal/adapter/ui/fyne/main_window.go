package fyne

import (
	"sync"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/tejashwikalptaru/spectrometer/internal/adapter/ui/fyne/widgets"
	"github.com/tejashwikalptaru/spectrometer/internal/ports"
)

// Window defaults.
const (
	AppName       = "Spectrometer"
	DefaultWidth  = 960
	DefaultHeight = 360
)

// slopeStep is the tilt change per Alt+Up/Alt+Down in dB per octave.
const slopeStep = 0.5

// MainWindow is the window hosting the spectrum widget. It is a passive
// view: key presses go to the presenter, the presenter calls back through
// ports.SpectrumView.
//
// Keys: S toggles the style, L cycles the scale, R resets the smoothing
// state, Alt+Up and Alt+Down change the slope.
type MainWindow struct {
	app    fyneapp.App
	window fyneapp.Window

	spectrum *widgets.SpectrumWidget

	// Lifecycle management
	closeOnce     sync.Once
	onBeforeClose func()

	// Presenter (set after construction)
	presenter *Presenter
}

// NewMainWindow creates the window with an empty spectrum widget.
func NewMainWindow(app fyneapp.App, drawer widgets.Drawer) *MainWindow {
	w := &MainWindow{
		app:      app,
		window:   app.NewWindow(AppName),
		spectrum: widgets.NewSpectrumWidget(drawer),
	}

	w.window.SetContent(w.spectrum)
	w.window.Resize(fyneapp.NewSize(DefaultWidth, DefaultHeight))
	w.window.SetCloseIntercept(func() {
		if w.onBeforeClose != nil {
			w.onBeforeClose()
		}
		w.window.Close()
	})

	return w
}

// SetPresenter connects the presenter to this view.
// This must be called before showing the window.
func (w *MainWindow) SetPresenter(presenter *Presenter) {
	w.presenter = presenter
	w.addShortcuts()
}

// SetOnBeforeClose registers a callback that runs when the user closes the window.
func (w *MainWindow) SetOnBeforeClose(fn func()) {
	w.onBeforeClose = fn
}

// addShortcuts adds keyboard shortcuts.
func (w *MainWindow) addShortcuts() {
	w.window.Canvas().SetOnTypedKey(w.handleKey)

	w.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyneapp.KeyUp,
		Modifier: fyneapp.KeyModifierAlt,
	}, func(fyneapp.Shortcut) {
		w.presenter.OnSlopeStep(slopeStep)
	})

	w.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyneapp.KeyDown,
		Modifier: fyneapp.KeyModifierAlt,
	}, func(fyneapp.Shortcut) {
		w.presenter.OnSlopeStep(-slopeStep)
	})
}

func (w *MainWindow) handleKey(ev *fyneapp.KeyEvent) {
	if w.presenter == nil {
		return
	}
	switch ev.Name {
	case fyneapp.KeyS:
		w.presenter.OnToggleStyle()
	case fyneapp.KeyL:
		w.presenter.OnCycleScale()
	case fyneapp.KeyR:
		w.presenter.OnReset()
	}
}

// ShowAndRun shows the window and runs the application event loop.
func (w *MainWindow) ShowAndRun() {
	w.window.ShowAndRun()
}

// Close closes the window.
// It's safe to call multiple times (idempotent).
func (w *MainWindow) Close() {
	w.closeOnce.Do(func() {
		w.window.Close()
	})
}

// GetWindow returns the underlying Fyne window.
func (w *MainWindow) GetWindow() fyneapp.Window {
	return w.window
}

// Spectrum returns the spectrum widget.
func (w *MainWindow) Spectrum() *widgets.SpectrumWidget {
	return w.spectrum
}

// ports.SpectrumView implementation

// RefreshSpectrum repaints the spectrum widget.
func (w *MainWindow) RefreshSpectrum() {
	w.spectrum.Refresh()
}

// SetStatus shows the settings summary in the window title.
func (w *MainWindow) SetStatus(status string) {
	w.window.SetTitle(AppName + " | " + status)
}

var _ ports.SpectrumView = (*MainWindow)(nil)
