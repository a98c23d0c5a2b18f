// Package ports define the UI interface for view abstraction.
// This interface allows the presenter to update the UI without depending on Fyne directly.
package ports

// SpectrumView is what the presenter needs from the window showing the
// spectrum.
//
// Thread-safety: All methods must be called from the main UI thread.
type SpectrumView interface {
	// RefreshSpectrum repaints the spectrum widget.
	RefreshSpectrum()

	// SetStatus shows a short description of the current settings.
	SetStatus(status string)
}
