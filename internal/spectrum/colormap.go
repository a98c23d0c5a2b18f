package spectrum

import (
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/tejashwikalptaru/spectrometer/internal/domain"
)

// ColorMap maps an amplitude in [0, 1] to a color.
type ColorMap func(amplitude float64) color.NRGBA

// Grayscale maps amplitude to R=G=B=round(amplitude*255).
// It is the default mapping for the gradient style and a placeholder for a
// perceptual map.
func Grayscale(amplitude float64) color.NRGBA {
	v := uint8(math.Round(clamp01(amplitude) * 255))
	return color.NRGBA{R: v, G: v, B: v, A: 0xff}
}

// heatKeys are sampled from the magma palette.
var heatKeys = []colorful.Color{
	mustHex("#000004"),
	mustHex("#3b0f70"),
	mustHex("#8c2981"),
	mustHex("#de4968"),
	mustHex("#fe9f6d"),
	mustHex("#fcfdbf"),
}

// Heat maps amplitude through a dark-to-bright palette, blending neighbouring
// key colors in HCL space so equal amplitude steps look equally different.
func Heat(amplitude float64) color.NRGBA {
	a := clamp01(amplitude)

	segments := float64(len(heatKeys) - 1)
	pos := a * segments
	idx := int(pos)
	if idx >= len(heatKeys)-1 {
		idx = len(heatKeys) - 2
	}

	c := heatKeys[idx].BlendHcl(heatKeys[idx+1], pos-float64(idx)).Clamped()
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

var colorMaps = map[string]ColorMap{
	"grayscale": Grayscale,
	"heat":      Heat,
}

// ColorMapByName looks up a registered color map. The empty name selects
// the default grayscale map.
func ColorMapByName(name string) (ColorMap, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = domain.DefaultColorMap
	}
	cm, ok := colorMaps[key]
	if !ok {
		return nil, domain.NewValidationError("color_map", name, "unknown color map", domain.ErrUnknownColorMap)
	}
	return cm, nil
}

// ColorMapNames returns the registered color map names in sorted order.
func ColorMapNames() []string {
	names := make([]string, 0, len(colorMaps))
	for name := range colorMaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseColor parses a hex color such as "#f54e47".
func ParseColor(s string) (color.NRGBA, error) {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return color.NRGBA{}, domain.NewValidationError("color", s, "must be a #rrggbb hex color", domain.ErrInvalidColor)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// FormatColor renders c as "#rrggbb".
func FormatColor(c color.NRGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
