// Package raster implements ports.Surface on an in-memory RGBA image.
// Coordinates handed to the surface are device-independent pixels; the
// surface multiplies them by its scale to address image pixels.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/vector"

	"github.com/tejashwikalptaru/spectrometer/internal/domain"
	"github.com/tejashwikalptaru/spectrometer/internal/ports"
)

// Background is the default clear color.
var Background = color.NRGBA{R: 8, G: 10, B: 18, A: 255}

// Surface draws onto an *image.RGBA.
type Surface struct {
	img   *image.RGBA
	scale float64
}

// New creates a surface backed by a new width x height image at scale 1.
func New(width, height int) *Surface {
	return NewScaled(width, height, 1)
}

// NewScaled creates a surface of width x height image pixels where one
// device-independent pixel covers scale image pixels.
func NewScaled(width, height int, scale float64) *Surface {
	if !(scale > 0) {
		scale = 1
	}
	return &Surface{
		img:   image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0))),
		scale: scale,
	}
}

// Image returns the backing image.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Clear fills the whole image with c.
func (s *Surface) Clear(c color.Color) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Size returns the drawable area in device-independent pixels.
func (s *Surface) Size() (width, height float64) {
	b := s.img.Bounds()
	return float64(b.Dx()) / s.scale, float64(b.Dy()) / s.scale
}

// StrokePath strokes every segment of path as a quad of the paint's width and
// rounds the joins. Geometry outside the image is clipped.
func (s *Surface) StrokePath(path domain.Path, paint domain.Paint) {
	b := s.img.Bounds()
	if b.Empty() || path.Len() < 2 {
		return
	}

	half := math.Max(paint.LineWidth*s.scale, 1) / 2

	r := vector.NewRasterizer(b.Dx(), b.Dy())
	r.DrawOp = draw.Over

	var pen domain.Point
	var drawn bool
	for i, cmd := range path.Commands {
		p := domain.Point{X: cmd.X * s.scale, Y: cmd.Y * s.scale}
		if cmd.Verb == domain.VerbMoveTo || i == 0 {
			pen = p
			continue
		}
		segment(r, pen, p, half)
		join(r, p, half)
		pen = p
		drawn = true
	}

	if drawn {
		r.Draw(s.img, b, image.NewUniform(paint.Color), image.Point{})
	}
}

// segment adds the quad covering a to b with the given half width.
func segment(r *vector.Rasterizer, a, b domain.Point, half float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*half, dx/length*half

	r.MoveTo(float32(a.X+nx), float32(a.Y+ny))
	r.LineTo(float32(b.X+nx), float32(b.Y+ny))
	r.LineTo(float32(b.X-nx), float32(b.Y-ny))
	r.LineTo(float32(a.X-nx), float32(a.Y-ny))
	r.ClosePath()
}

// join adds an octagon approximating a round join at p.
func join(r *vector.Rasterizer, p domain.Point, half float64) {
	const sides = 8
	for i := 0; i <= sides; i++ {
		a := 2 * math.Pi * float64(i) / sides
		x, y := float32(p.X+half*math.Cos(a)), float32(p.Y+half*math.Sin(a))
		if i == 0 {
			r.MoveTo(x, y)
		} else {
			r.LineTo(x, y)
		}
	}
	r.ClosePath()
}

// FillGradient fills rect column by column with the horizontal gradient
// through stops. Stops must be in increasing position order. Columns left of
// the first stop take its color, columns right of the last stop take the
// last color.
func (s *Surface) FillGradient(rect domain.Rect, stops []domain.GradientStop) {
	if len(stops) == 0 || rect.Empty() {
		return
	}

	area := image.Rect(
		int(math.Floor(rect.X*s.scale)),
		int(math.Floor(rect.Y*s.scale)),
		int(math.Ceil((rect.X+rect.Width)*s.scale)),
		int(math.Ceil((rect.Y+rect.Height)*s.scale)),
	).Intersect(s.img.Bounds())
	if area.Empty() {
		return
	}

	keys := make([]colorful.Color, len(stops))
	for i, st := range stops {
		keys[i], _ = colorful.MakeColor(st.Color)
	}

	for px := area.Min.X; px < area.Max.X; px++ {
		x := (float64(px) + 0.5) / s.scale
		c := sampleGradient(stops, keys, x)
		col := image.Rect(px, area.Min.Y, px+1, area.Max.Y)
		draw.Draw(s.img, col, image.NewUniform(c), image.Point{}, draw.Src)
	}
}

// sampleGradient returns the gradient color at x, blending neighbouring stops
// in sRGB like a canvas linear gradient.
func sampleGradient(stops []domain.GradientStop, keys []colorful.Color, x float64) color.NRGBA {
	i := sort.Search(len(stops), func(i int) bool { return stops[i].Position >= x })
	switch {
	case i == 0:
		return stops[0].Color
	case i == len(stops):
		return stops[len(stops)-1].Color
	}

	lo, hi := stops[i-1], stops[i]
	span := hi.Position - lo.Position
	if span <= 0 {
		return hi.Color
	}
	t := (x - lo.Position) / span

	r, g, b := keys[i-1].BlendRgb(keys[i], t).Clamped().RGB255()
	a := uint8(math.Round(float64(lo.Color.A) + t*(float64(hi.Color.A)-float64(lo.Color.A))))
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

var _ ports.Surface = (*Surface)(nil)
