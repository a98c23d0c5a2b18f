// Package spectrum implements the visualizer core: temporal smoothing of
// per-bin magnitudes, frequency axis mapping, spectral tilt compensation and
// the two rendering strategies (line and gradient).
//
// Nothing in this package is safe for concurrent use. Callers that receive
// frames and draw requests on different goroutines must serialise access.
package spectrum

import (
	"math"

	"github.com/tejashwikalptaru/spectrometer/internal/domain"
)

// MinFrequency is the lower edge of the displayed frequency range in Hz.
const MinFrequency = 20.0

// BinToFrequency converts a bin index to its frequency in Hz, assuming
// binCount bins evenly divide the range [0, sampleRate/2].
func BinToFrequency(bin, binCount, sampleRate int) float64 {
	if binCount <= 0 {
		return 0
	}
	return float64(bin) * (float64(sampleRate) / (2 * float64(binCount)))
}

// Nyquist returns half the sample rate.
func Nyquist(sampleRate int) float64 {
	return float64(sampleRate) / 2
}

// Map linearly maps val from [x0, x1] to [y0, y1].
// A collapsed input range returns y0.
func Map(val, x0, x1, y0, y1 float64) float64 {
	if x1 == x0 {
		return y0
	}
	return y0 + (y1-y0)*(val-x0)/(x1-x0)
}

// Position maps a frequency to an x coordinate in [0, width] under the given
// scale. The input range is [MinFrequency, Nyquist].
//
// Frequencies outside that range are not clamped. A sample rate whose Nyquist
// frequency does not exceed MinFrequency, or any non-finite result, yields 0.
func Position(freq float64, scale domain.Scale, sampleRate int, width float64) float64 {
	hi := Nyquist(sampleRate)
	if hi <= MinFrequency {
		return 0
	}

	var x float64
	switch scale.Kind {
	case domain.ScaleRoot:
		n := scale.Exponent
		if !(n > 0) {
			x = logPosition(freq, hi, width)
			break
		}
		x = Map(math.Pow(freq, n), math.Pow(MinFrequency, n), math.Pow(hi, n), 0, width)
	case domain.ScaleLogarithmic:
		x = logPosition(freq, hi, width)
	default:
		x = Map(freq, MinFrequency, hi, 0, width)
	}

	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

func logPosition(freq, hi, width float64) float64 {
	return Map(math.Log10(freq), math.Log10(MinFrequency), math.Log10(hi), 0, width)
}

// OctavesAbove returns how many octaves freq lies above ref.
// Non-positive inputs return 0.
func OctavesAbove(freq, ref float64) float64 {
	if freq <= 0 || ref <= 0 {
		return 0
	}
	return math.Log2(freq / ref)
}
