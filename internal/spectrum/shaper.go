package spectrum

import (
	"math"
)

// Shaper applies spectral tilt compensation and converts dB to linear amplitude.
//
// Raw spectral magnitude falls off with frequency; adding Slope dB for every
// octave above Reference flattens e.g. pink noise (3 dB/octave).
type Shaper struct {
	// Slope is the tilt in dB per octave. Negative values tilt downwards.
	Slope float64

	// Reference is the frequency at which the tilt is 0 dB. Zero means 1 Hz.
	Reference float64
}

// Amplitude returns the linear amplitude in [0, 1] of a dB value at freq.
// The tilted level is clamped to 0 dB; there is no lower clamp. No tilt is
// applied at non-positive frequencies. A NaN level yields 0.
func (s Shaper) Amplitude(db, freq float64) float64 {
	if math.IsNaN(db) {
		return 0
	}

	if freq > 0 && s.Slope != 0 {
		db += OctavesAbove(freq, s.reference()) * s.Slope
	}

	if db > 0 {
		db = 0
	}

	return math.Pow(10, db/20)
}

// Shape converts every smoothed value to an amplitude. values[i] belongs to
// bin i of len(values) bins at sampleRate.
func (s Shaper) Shape(values []float64, sampleRate int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = s.Amplitude(v, BinToFrequency(i, len(values), sampleRate))
	}
	return out
}

func (s Shaper) reference() float64 {
	if s.Reference > 0 {
		return s.Reference
	}
	return 1
}
