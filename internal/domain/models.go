// Package domain contains core value types with no external dependencies.
// This package defines the fundamental entities of the spectrum visualizer.
package domain

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// Frame is one spectrum update: an ordered sequence of magnitudes in dB.
// Index i implicitly maps to a frequency via the sample rate and the frame length.
//
// A Frame is produced by a FrameSource and must be treated as immutable once
// handed to the visualizer; consumers copy whatever they keep.
type Frame []float64

// Clone returns an independent copy of the frame.
func (f Frame) Clone() Frame {
	if f == nil {
		return nil
	}
	out := make(Frame, len(f))
	copy(out, f)
	return out
}

// ScaleKind identifies the frequency axis mapping.
type ScaleKind int

// Available frequency scales.
const (
	ScaleLinear ScaleKind = iota
	ScaleRoot
	ScaleLogarithmic
)

// String returns the configuration name of the scale kind.
func (k ScaleKind) String() string {
	switch k {
	case ScaleLinear:
		return "linear"
	case ScaleRoot:
		return "root"
	case ScaleLogarithmic:
		return "logarithmic"
	default:
		return fmt.Sprintf("ScaleKind(%d)", int(k))
	}
}

// Scale is the frequency axis mapping used to place bins horizontally.
// Exponent is only meaningful for ScaleRoot and must be > 0 there.
type Scale struct {
	Kind     ScaleKind
	Exponent float64
}

// LinearScale returns a linear frequency axis.
func LinearScale() Scale {
	return Scale{Kind: ScaleLinear}
}

// RootScale returns a root (power-law) frequency axis with the given exponent.
// An exponent of 1 degenerates to a linear axis; small exponents approach
// logarithmic compression.
func RootScale(exponent float64) Scale {
	return Scale{Kind: ScaleRoot, Exponent: exponent}
}

// LogarithmicScale returns a logarithmic frequency axis.
func LogarithmicScale() Scale {
	return Scale{Kind: ScaleLogarithmic}
}

// String returns a human-readable form, e.g. "root(0.5)".
func (s Scale) String() string {
	if s.Kind == ScaleRoot {
		return fmt.Sprintf("root(%g)", s.Exponent)
	}
	return s.Kind.String()
}

// ParseScale parses a scale name. The exponent is only used for "root".
func ParseScale(name string, exponent float64) (Scale, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linear", "lin":
		return LinearScale(), nil
	case "log", "logarithmic":
		return LogarithmicScale(), nil
	case "root", "pow":
		return RootScale(exponent), nil
	default:
		return Scale{}, NewValidationError("scale", name, "must be linear, root or log", ErrUnknownScale)
	}
}

// Style selects the rendering strategy.
type Style int

// Available rendering styles.
const (
	// StyleSpectrum draws a stroked polyline.
	StyleSpectrum Style = iota
	// StyleGradient fills the viewport with a horizontal color gradient.
	StyleGradient
)

// String returns the configuration name of the style.
func (s Style) String() string {
	switch s {
	case StyleSpectrum:
		return "spectrum"
	case StyleGradient:
		return "gradient"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// ParseStyle parses a style name.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "spectrum", "line":
		return StyleSpectrum, nil
	case "gradient":
		return StyleGradient, nil
	default:
		return 0, NewValidationError("style", name, "must be spectrum or gradient", ErrUnknownStyle)
	}
}

// Point is a position in device-independent pixels. The origin is the top-left
// corner of the viewport; y grows downwards.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle in device-independent pixels.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// PathVerb is a path construction command.
type PathVerb uint8

// Path verbs.
const (
	VerbMoveTo PathVerb = iota
	VerbLineTo
)

// PathCommand is one move-to or line-to step.
type PathCommand struct {
	Verb PathVerb
	Point
}

// Path is an ordered list of move-to/line-to commands.
type Path struct {
	Commands []PathCommand
}

// MoveTo starts a new sub-path at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.Commands = append(p.Commands, PathCommand{Verb: VerbMoveTo, Point: Point{X: x, Y: y}})
}

// LineTo adds a straight segment from the current point to (x, y).
func (p *Path) LineTo(x, y float64) {
	p.Commands = append(p.Commands, PathCommand{Verb: VerbLineTo, Point: Point{X: x, Y: y}})
}

// Len returns the number of commands in the path.
func (p *Path) Len() int {
	return len(p.Commands)
}

// Paint describes how a path is stroked.
type Paint struct {
	Color     color.NRGBA
	LineWidth float64
}

// GradientStop is a (position, color) pair along a horizontal linear gradient.
// Position is an x coordinate in device-independent pixels.
type GradientStop struct {
	Position float64
	Color    color.NRGBA
}

// Settings is the complete visualizer configuration.
type Settings struct {
	// SampleRate is the audio sample rate in Hz
	SampleRate int

	// Scale is the frequency axis mapping
	Scale Scale

	// Style selects line or gradient rendering
	Style Style

	// Color is the stroke color for the spectrum style
	Color color.NRGBA

	// LineWidth is the stroke width for the spectrum style
	LineWidth float64

	// Slope is the spectral tilt compensation in dB per octave
	Slope float64

	// Attack is the smoothing coefficient used while the signal rises
	Attack float64

	// Release is the smoothing coefficient used while the signal falls
	Release float64

	// ColorMap names the amplitude-to-color mapping of the gradient style
	ColorMap string
}

// Default settings values.
const (
	DefaultSampleRate = 44100
	DefaultLineWidth  = 2.0
	DefaultSlope      = 3.0
	DefaultAttack     = 0.5
	DefaultRelease    = 0.9
	DefaultColorMap   = "grayscale"
)

// DefaultColor is the default stroke color (#f54e47).
var DefaultColor = color.NRGBA{R: 0xf5, G: 0x4e, B: 0x47, A: 0xff}

// DefaultSettings returns the default visualizer configuration.
func DefaultSettings() Settings {
	return Settings{
		SampleRate: DefaultSampleRate,
		Scale:      LogarithmicScale(),
		Style:      StyleSpectrum,
		Color:      DefaultColor,
		LineWidth:  DefaultLineWidth,
		Slope:      DefaultSlope,
		Attack:     DefaultAttack,
		Release:    DefaultRelease,
		ColorMap:   DefaultColorMap,
	}
}

// Validate checks the settings and returns the first violation found.
// Color map names are resolved by the spectrum package and are not checked here.
func (s Settings) Validate() error {
	if s.SampleRate <= 0 {
		return NewValidationError("sample_rate", s.SampleRate, "must be positive", ErrInvalidSampleRate)
	}

	switch s.Scale.Kind {
	case ScaleLinear, ScaleLogarithmic:
	case ScaleRoot:
		if !(s.Scale.Exponent > 0) {
			return NewValidationError("scale.exponent", s.Scale.Exponent, "must be greater than 0", ErrInvalidExponent)
		}
	default:
		return NewValidationError("scale", s.Scale.Kind, "unknown scale", ErrUnknownScale)
	}

	if s.Style != StyleSpectrum && s.Style != StyleGradient {
		return NewValidationError("style", s.Style, "unknown style", ErrUnknownStyle)
	}

	if !(s.LineWidth > 0) {
		return NewValidationError("line_width", s.LineWidth, "must be greater than 0", ErrInvalidLineWidth)
	}

	if math.IsNaN(s.Slope) || math.IsInf(s.Slope, 0) {
		return NewValidationError("slope", s.Slope, "must be a finite number", ErrInvalidSlope)
	}

	if !validCoefficient(s.Attack) {
		return NewValidationError("attack", s.Attack, "must be in (0, 1)", ErrInvalidCoefficient)
	}

	if !validCoefficient(s.Release) {
		return NewValidationError("release", s.Release, "must be in (0, 1)", ErrInvalidCoefficient)
	}

	return nil
}

func validCoefficient(c float64) bool {
	return c > 0 && c < 1
}
