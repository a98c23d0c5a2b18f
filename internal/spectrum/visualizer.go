package spectrum

import (
	"image/color"

	"github.com/tejashwikalptaru/spectrometer/internal/domain"
	"github.com/tejashwikalptaru/spectrometer/internal/ports"
)

// Visualizer owns the smoothed spectrum state and the configuration, and turns
// both into a Scene on demand.
//
// Frame length policy: the first frame seeds the state. A frame whose length
// differs from the current state discards the history and reseeds from that
// frame; values are never indexed across mismatched lengths.
//
// Not safe for concurrent use.
type Visualizer struct {
	settings domain.Settings
	filter   Filter
	colorMap ColorMap

	smoother Smoother  // nil until the first frame
	freqs    []float64 // center frequency per slot
	frames   uint64
}

// New creates a visualizer with the given settings.
func New(settings domain.Settings) (*Visualizer, error) {
	v := &Visualizer{}
	if err := v.apply(settings); err != nil {
		return nil, err
	}
	return v, nil
}

// OnFrame feeds a new spectrum frame. It returns true when the state changed
// and a redraw is due. Empty frames are ignored.
func (v *Visualizer) OnFrame(frame domain.Frame) bool {
	if len(frame) == 0 {
		return false
	}

	v.frames++

	if v.smoother == nil || v.smoother.Len() != len(frame) {
		v.reseed(frame)
		return true
	}

	v.smoother.Smooth(frame)
	return true
}

// Scene computes the geometry for a viewport of the given size from the
// current state. It does not modify the state. The scene is empty before the
// first frame and for a zero-sized viewport.
func (v *Visualizer) Scene(width, height float64) Scene {
	r := Renderer{
		Style:    v.settings.Style,
		Stroke:   domain.Paint{Color: v.settings.Color, LineWidth: v.settings.LineWidth},
		ColorMap: v.colorMap,
	}

	if v.smoother == nil || width <= 0 || height <= 0 {
		return r.Build(nil, width, height)
	}

	values := v.smoother.Values()
	shaper := Shaper{Slope: v.settings.Slope}

	// Bin 0 is DC; it has no position on a log or root axis.
	samples := make([]Sample, 0, max(len(values)-1, 0))
	for i := 1; i < len(values); i++ {
		f := v.freqs[i]
		samples = append(samples, Sample{
			X:         Position(f, v.settings.Scale, v.settings.SampleRate, width),
			Amplitude: shaper.Amplitude(values[i], f),
		})
	}

	return r.Build(samples, width, height)
}

// Draw paints the current state onto the surface. Nothing is drawn for a
// zero-sized surface or before the first frame.
func (v *Visualizer) Draw(surface ports.Surface) {
	w, h := surface.Size()
	v.Scene(w, h).Paint(surface)
}

// Ready reports whether at least one frame has been received.
func (v *Visualizer) Ready() bool {
	return v.smoother != nil
}

// Len returns the number of bins in the smoothed state.
func (v *Visualizer) Len() int {
	if v.smoother == nil {
		return 0
	}
	return v.smoother.Len()
}

// Frames returns the number of non-empty frames received.
func (v *Visualizer) Frames() uint64 {
	return v.frames
}

// Values returns a copy of the smoothed state in dB.
func (v *Visualizer) Values() []float64 {
	if v.smoother == nil {
		return nil
	}
	return append([]float64(nil), v.smoother.Values()...)
}

// Reset discards the smoothed state. The next frame seeds it again.
func (v *Visualizer) Reset() {
	v.smoother = nil
	v.freqs = nil
	v.frames = 0
}

// Settings returns the current configuration.
func (v *Visualizer) Settings() domain.Settings {
	return v.settings
}

// Update validates and applies a complete configuration.
func (v *Visualizer) Update(settings domain.Settings) error {
	return v.apply(settings)
}

// SetScale sets the frequency axis mapping.
func (v *Visualizer) SetScale(scale domain.Scale) error {
	return v.modify(func(s *domain.Settings) { s.Scale = scale })
}

// SetStyle sets the rendering style.
func (v *Visualizer) SetStyle(style domain.Style) error {
	return v.modify(func(s *domain.Settings) { s.Style = style })
}

// SetColor sets the stroke color.
func (v *Visualizer) SetColor(c color.NRGBA) error {
	return v.modify(func(s *domain.Settings) { s.Color = c })
}

// SetLineWidth sets the stroke width.
func (v *Visualizer) SetLineWidth(width float64) error {
	return v.modify(func(s *domain.Settings) { s.LineWidth = width })
}

// SetSlope sets the spectral tilt in dB per octave.
func (v *Visualizer) SetSlope(slope float64) error {
	return v.modify(func(s *domain.Settings) { s.Slope = slope })
}

// SetSampleRate sets the sample rate used to place bins.
func (v *Visualizer) SetSampleRate(sampleRate int) error {
	return v.modify(func(s *domain.Settings) { s.SampleRate = sampleRate })
}

// SetAttackRelease sets asymmetric smoothing coefficients. The smoothed
// values are kept; only future frames are affected.
func (v *Visualizer) SetAttackRelease(attack, release float64) error {
	return v.modify(func(s *domain.Settings) {
		s.Attack = attack
		s.Release = release
	})
}

// SetSmoothingFactor sets symmetric smoothing where factor is the weight of
// the new frame: attack == release == 1-factor.
func (v *Visualizer) SetSmoothingFactor(factor float64) error {
	f := SymmetricFilter(factor)
	return v.SetAttackRelease(f.Attack, f.Release)
}

// SetColorMap selects the gradient color map by name.
func (v *Visualizer) SetColorMap(name string) error {
	return v.modify(func(s *domain.Settings) { s.ColorMap = name })
}

func (v *Visualizer) modify(change func(*domain.Settings)) error {
	next := v.settings
	change(&next)
	return v.apply(next)
}

// apply validates next and swaps it in. On error nothing changes.
func (v *Visualizer) apply(next domain.Settings) error {
	if err := next.Validate(); err != nil {
		return err
	}

	cm, err := ColorMapByName(next.ColorMap)
	if err != nil {
		return err
	}

	f, err := NewFilter(next.Attack, next.Release)
	if err != nil {
		return err
	}

	prev := v.settings
	v.settings = next
	v.colorMap = cm

	if f != v.filter {
		v.filter = f
		if v.smoother != nil {
			// Keep the current picture, change only how it evolves.
			seed := append(domain.Frame(nil), v.smoother.Values()...)
			v.smoother = NewSmoother(f, seed)
			v.assignFrequencies()
		}
	}

	if prev.SampleRate != next.SampleRate && v.smoother != nil {
		v.assignFrequencies()
	}

	return nil
}

func (v *Visualizer) reseed(frame domain.Frame) {
	if v.smoother == nil {
		v.smoother = NewSmoother(v.filter, frame)
	} else {
		v.smoother.Reset(frame)
	}
	v.assignFrequencies()
}

// assignFrequencies recomputes the center frequency of every slot.
func (v *Visualizer) assignFrequencies() {
	n := v.smoother.Len()
	if cap(v.freqs) < n {
		v.freqs = make([]float64, n)
	}
	v.freqs = v.freqs[:n]
	for i := range v.freqs {
		v.freqs[i] = BinToFrequency(i, n, v.settings.SampleRate)
	}

	if bank, ok := v.smoother.(*BankSmoother); ok {
		for i := range bank.bins {
			bank.bins[i].SetFrequency(v.freqs[i])
		}
	}
}
