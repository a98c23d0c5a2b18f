// Package widgets provides the Fyne widgets of the spectrometer window.
package widgets

import (
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/spectrometer/internal/adapter/surface/raster"
	"github.com/tejashwikalptaru/spectrometer/internal/ports"
)

// Drawer paints the current spectrum onto a surface.
type Drawer interface {
	Draw(surface ports.Surface)
}

// SpectrumWidget is a raster-backed widget that asks a Drawer to paint on
// every refresh. The raster callback receives pixel dimensions; the widget
// hands the drawer a surface sized in device-independent pixels.
type SpectrumWidget struct {
	widget.BaseWidget

	Raster *canvas.Raster

	mu         sync.Mutex
	drawer     Drawer
	background color.Color
	renders    uint64
}

// NewSpectrumWidget creates the widget. drawer may be nil and set later.
func NewSpectrumWidget(drawer Drawer) *SpectrumWidget {
	v := &SpectrumWidget{
		drawer:     drawer,
		background: raster.Background,
	}
	v.Raster = canvas.NewRaster(v.render)
	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget.
func (v *SpectrumWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.Raster)
}

// MinSize returns the minimum size of the widget.
func (v *SpectrumWidget) MinSize() fyne.Size {
	return fyne.NewSize(64, 32)
}

// SetDrawer replaces the drawer.
func (v *SpectrumWidget) SetDrawer(drawer Drawer) {
	v.mu.Lock()
	v.drawer = drawer
	v.mu.Unlock()
}

// SetBackground sets the clear color.
func (v *SpectrumWidget) SetBackground(c color.Color) {
	v.mu.Lock()
	v.background = c
	v.mu.Unlock()
}

// Renders returns how many frames the raster has produced.
func (v *SpectrumWidget) Renders() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renders
}

// render is the canvas.Raster generator.
func (v *SpectrumWidget) render(w, h int) image.Image {
	v.mu.Lock()
	drawer := v.drawer
	background := v.background
	v.renders++
	v.mu.Unlock()

	scale := 1.0
	if size := v.Size(); size.Width > 0 && w > 0 {
		scale = float64(w) / float64(size.Width)
	}

	surface := raster.NewScaled(w, h, scale)
	surface.Clear(background)

	if drawer != nil && w > 0 && h > 0 {
		drawer.Draw(surface)
	}
	return surface.Image()
}
