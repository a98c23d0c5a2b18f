package spectrum

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/tejashwikalptaru/spectrometer/internal/domain"
)

// Floor is the initial history value of a bin in dB, and the value that
// replaces non-finite input.
const Floor = -90.0

// Filter is a one-pole exponential smoother whose coefficient depends on the
// direction of change: Release while the signal falls (history > value),
// Attack otherwise. A coefficient closer to 1 reacts more slowly.
type Filter struct {
	Attack  float64
	Release float64
}

// NewFilter returns a filter with the given coefficients, both in (0, 1).
func NewFilter(attack, release float64) (Filter, error) {
	if !validCoefficient(attack) {
		return Filter{}, domain.NewValidationError("attack", attack, "must be in (0, 1)", domain.ErrInvalidCoefficient)
	}
	if !validCoefficient(release) {
		return Filter{}, domain.NewValidationError("release", release, "must be in (0, 1)", domain.ErrInvalidCoefficient)
	}
	return Filter{Attack: attack, Release: release}, nil
}

// SymmetricFilter returns the filter equivalent to the uniform update
// data[i] -= factor * (data[i] - new[i]), i.e. attack == release == 1-factor.
func SymmetricFilter(factor float64) Filter {
	k := 1 - factor
	return Filter{Attack: k, Release: k}
}

// Symmetric reports whether rises and falls use the same coefficient.
func (f Filter) Symmetric() bool {
	return f.Attack == f.Release
}

// Step returns the next smoothed value given the previous one and a new input.
func (f Filter) Step(history, value float64) float64 {
	k := f.Attack
	if history > value {
		k = f.Release
	}
	return history*k + value*(1-k)
}

// Apply smooths state towards frame in place. Both slices must have the same
// length; extra elements of the longer one are left untouched.
func (f Filter) Apply(state, frame []float64) {
	n := min(len(state), len(frame))
	state, frame = state[:n], frame[:n]

	if f.Symmetric() {
		// state = state*k + frame*(1-k)
		floats.Scale(f.Attack, state)
		floats.AddScaled(state, 1-f.Attack, frame)
		return
	}

	for i := range state {
		state[i] = f.Step(state[i], frame[i])
	}
}

// Bin is the smoothing state of a single spectrum slot.
type Bin struct {
	raw       float64
	history   float64
	frequency float64
	filter    Filter
}

// NewBin returns a bin at the floor with the default attack and release.
func NewBin() Bin {
	return Bin{
		raw:     Floor,
		history: Floor,
		filter:  Filter{Attack: domain.DefaultAttack, Release: domain.DefaultRelease},
	}
}

// Update feeds a new raw value and advances the smoothed history.
func (b *Bin) Update(value float64) {
	value = sanitize(value)
	b.raw = value
	b.history = b.filter.Step(b.history, value)
}

// Value returns the smoothed value in dB.
func (b *Bin) Value() float64 {
	return b.history
}

// Raw returns the most recent unsmoothed value in dB.
func (b *Bin) Raw() float64 {
	return b.raw
}

// Reset sets both the raw and smoothed value, discarding history.
func (b *Bin) Reset(value float64) {
	value = sanitize(value)
	b.raw = value
	b.history = value
}

// SetAttack sets the coefficient used while the signal rises.
func (b *Bin) SetAttack(attack float64) {
	b.filter.Attack = attack
}

// SetRelease sets the coefficient used while the signal falls.
func (b *Bin) SetRelease(release float64) {
	b.filter.Release = release
}

// SetFilter replaces both coefficients.
func (b *Bin) SetFilter(f Filter) {
	b.filter = f
}

// SetFrequency assigns the slot's center frequency in Hz.
func (b *Bin) SetFrequency(freq float64) {
	b.frequency = freq
}

// Frequency returns the slot's center frequency in Hz.
func (b *Bin) Frequency() float64 {
	return b.frequency
}

// Smoother holds the smoothed state of a whole spectrum.
type Smoother interface {
	// Smooth advances every slot towards the matching frame value.
	// The frame must have Len() values.
	Smooth(frame domain.Frame)

	// Reset discards history and seeds the state from frame, adopting its length.
	Reset(frame domain.Frame)

	// Values returns the smoothed values. The slice is owned by the smoother
	// and is only valid until the next call.
	Values() []float64

	// Len returns the number of slots.
	Len() int
}

// NewSmoother returns the smoother best suited to the filter, seeded from seed.
// Symmetric filters update the whole vector at once; asymmetric filters keep a
// bank of per-slot bins.
func NewSmoother(f Filter, seed domain.Frame) Smoother {
	var s Smoother
	if f.Symmetric() {
		s = &VectorSmoother{filter: f}
	} else {
		s = &BankSmoother{filter: f}
	}
	s.Reset(seed)
	return s
}

// VectorSmoother applies one symmetric filter to a flat vector.
type VectorSmoother struct {
	filter Filter
	values []float64
	clean  []float64
}

// Smooth implements Smoother.
func (s *VectorSmoother) Smooth(frame domain.Frame) {
	s.clean = sanitizeInto(s.clean, frame)
	s.filter.Apply(s.values, s.clean)
}

// Reset implements Smoother.
func (s *VectorSmoother) Reset(frame domain.Frame) {
	s.values = sanitizeInto(s.values, frame)
}

// Values implements Smoother.
func (s *VectorSmoother) Values() []float64 {
	return s.values
}

// Len implements Smoother.
func (s *VectorSmoother) Len() int {
	return len(s.values)
}

// BankSmoother keeps one Bin per slot.
type BankSmoother struct {
	filter Filter
	bins   []Bin
	values []float64
}

// Smooth implements Smoother.
func (s *BankSmoother) Smooth(frame domain.Frame) {
	n := min(len(s.bins), len(frame))
	for i := 0; i < n; i++ {
		s.bins[i].Update(frame[i])
	}
}

// Reset implements Smoother.
func (s *BankSmoother) Reset(frame domain.Frame) {
	if cap(s.bins) >= len(frame) {
		s.bins = s.bins[:len(frame)]
	} else {
		s.bins = make([]Bin, len(frame))
	}
	for i := range s.bins {
		s.bins[i] = NewBin()
		s.bins[i].SetFilter(s.filter)
		s.bins[i].Reset(frame[i])
	}
}

// Values implements Smoother.
func (s *BankSmoother) Values() []float64 {
	if cap(s.values) < len(s.bins) {
		s.values = make([]float64, len(s.bins))
	}
	s.values = s.values[:len(s.bins)]
	for i := range s.bins {
		s.values[i] = s.bins[i].Value()
	}
	return s.values
}

// Len implements Smoother.
func (s *BankSmoother) Len() int {
	return len(s.bins)
}

// Bins exposes the per-slot state.
func (s *BankSmoother) Bins() []Bin {
	return s.bins
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Floor
	}
	return v
}

// sanitizeInto copies src into dst (reallocating if needed), replacing
// non-finite values with Floor.
func sanitizeInto(dst []float64, src domain.Frame) []float64 {
	if cap(dst) < len(src) {
		dst = make([]float64, len(src))
	}
	dst = dst[:len(src)]
	for i, v := range src {
		dst[i] = sanitize(v)
	}
	return dst
}

func validCoefficient(c float64) bool {
	return c > 0 && c < 1
}
