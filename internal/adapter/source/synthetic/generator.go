// Package synthetic provides a FrameSource that generates spectra instead of
// analysing audio: a pink noise floor, a handful of drifting tonal peaks and
// Gaussian jitter. It drives the visualizer when no analyser is attached.
package synthetic

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/tejashwikalptaru/spectrometer/internal/domain"
	"github.com/tejashwikalptaru/spectrometer/internal/spectrum"
)

// Generator levels in dB.
const (
	floorLevel  = -24.0 // noise floor at MinFrequency
	floorSlope  = -3.0  // dB per octave, pink noise
	peakGain    = 30.0  // peak height above the floor
	peakWidth   = 0.15  // peak half-width in octaves
	minLevel    = -120.0
	maxLevel    = 0.0
	driftPeriod = 8.0 // seconds per full drift cycle of the first peak
)

// peak is one tonal component. Its center wanders sinusoidally in octaves
// around base.
type peak struct {
	base   float64 // octaves above MinFrequency
	depth  float64 // drift depth in octaves
	period float64 // seconds
	phase  float64 // radians
}

// Generator builds synthetic spectrum frames. It is not safe for concurrent use.
type Generator struct {
	sampleRate int
	bins       int
	jitter     distuv.Normal
	peaks      []peak
	buf        domain.Frame
}

// NewGenerator returns a generator for frames of bins values at sampleRate.
// jitter is the standard deviation of the per-bin noise in dB.
func NewGenerator(sampleRate, bins, peaks int, jitter float64) *Generator {
	g := &Generator{
		sampleRate: sampleRate,
		bins:       bins,
		jitter:     distuv.Normal{Mu: 0, Sigma: jitter},
		buf:        make(domain.Frame, bins),
	}

	span := spectrum.OctavesAbove(spectrum.Nyquist(sampleRate), spectrum.MinFrequency)
	placement := distuv.Uniform{Min: 0.15 * span, Max: 0.85 * span}
	phase := distuv.Uniform{Min: 0, Max: 2 * math.Pi}
	for i := 0; i < peaks; i++ {
		g.peaks = append(g.peaks, peak{
			base:   placement.Rand(),
			depth:  0.5 + 0.25*float64(i%3),
			period: driftPeriod * (1 + 0.5*float64(i)),
			phase:  phase.Rand(),
		})
	}
	return g
}

// Frame returns the spectrum at time t seconds. The returned frame is reused
// by the next call.
func (g *Generator) Frame(t float64) domain.Frame {
	centers := make([]float64, len(g.peaks))
	for i, p := range g.peaks {
		centers[i] = p.base + p.depth*math.Sin(2*math.Pi*t/p.period+p.phase)
	}

	for i := range g.buf {
		f := spectrum.BinToFrequency(i, g.bins, g.sampleRate)
		oct := spectrum.OctavesAbove(f, spectrum.MinFrequency)
		if f < spectrum.MinFrequency {
			oct = 0
		}

		level := floorLevel + floorSlope*oct
		for _, c := range centers {
			d := (oct - c) / peakWidth
			level = math.Max(level, floorLevel+floorSlope*c+peakGain*math.Exp(-0.5*d*d))
		}
		if g.jitter.Sigma > 0 {
			level += g.jitter.Rand()
		}
		g.buf[i] = math.Min(math.Max(level, minLevel), maxLevel)
	}
	return g.buf
}

// Bins returns the frame length.
func (g *Generator) Bins() int {
	return g.bins
}
