package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/spectrometer/internal/domain"
)

func TestNewFilter_Validation(t *testing.T) {
	tests := []struct {
		name    string
		attack  float64
		release float64
		wantErr bool
	}{
		{"valid", 0.5, 0.9, false},
		{"attack zero", 0, 0.9, true},
		{"attack one", 1, 0.9, true},
		{"release negative", 0.5, -0.1, true},
		{"release NaN", 0.5, math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFilter(tt.attack, tt.release)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrInvalidCoefficient))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Filter{Attack: tt.attack, Release: tt.release}, f)
		})
	}
}

func TestFilter_Step_RisingUsesAttack(t *testing.T) {
	f := Filter{Attack: 0.5, Release: 0.9}

	// history -90 < value -20, so attack applies: -90*0.5 + -20*0.5
	assert.InDelta(t, -55.0, f.Step(-90, -20), 1e-12)
}

func TestFilter_Step_FallingUsesRelease(t *testing.T) {
	f := Filter{Attack: 0.5, Release: 0.9}

	assert.InDelta(t, -20*0.9+-90*0.1, f.Step(-20, -90), 1e-12)
}

func TestFilter_Step_SteadyState(t *testing.T) {
	f := Filter{Attack: 0.3, Release: 0.8}
	for _, v := range []float64{-90, -42.5, 0, 12} {
		assert.Equal(t, v, f.Step(v, v))
	}
}

func TestFilter_Step_Converges(t *testing.T) {
	for _, f := range []Filter{{0.5, 0.9}, {0.9, 0.5}, {0.99, 0.99}, {0.01, 0.2}} {
		up, down := -90.0, 0.0
		for i := 0; i < 5000; i++ {
			up = f.Step(up, -30)
			down = f.Step(down, -30)
		}
		assert.InDelta(t, -30.0, up, 1e-6)
		assert.InDelta(t, -30.0, down, 1e-6)
	}
}

func TestSymmetricFilter_MatchesUniformUpdate(t *testing.T) {
	const factor = 0.3
	f := SymmetricFilter(factor)
	require.True(t, f.Symmetric())

	data := []float64{-90, -60, -10, -45}
	next := []float64{-20, -80, -10, -5}

	want := append([]float64(nil), data...)
	for i := range want {
		want[i] -= factor * (want[i] - next[i])
	}

	f.Apply(data, next)
	assert.InDeltaSlice(t, want, data, 1e-9)
}

func TestFilter_Apply_AsymmetricMatchesStep(t *testing.T) {
	f := Filter{Attack: 0.5, Release: 0.9}
	state := []float64{-90, -20, -50}
	frame := []float64{-20, -90, -50}

	f.Apply(state, frame)
	assert.InDeltaSlice(t, []float64{-55, -27, -50}, state, 1e-12)
}

func TestFilter_Apply_MismatchedLengths(t *testing.T) {
	f := SymmetricFilter(0.5)
	state := []float64{0, 0, 0}

	assert.NotPanics(t, func() { f.Apply(state, []float64{-10}) })
	assert.InDeltaSlice(t, []float64{-5, 0, 0}, state, 1e-12)
}

func TestBin_Defaults(t *testing.T) {
	b := NewBin()
	assert.Equal(t, Floor, b.Value())
	assert.Equal(t, Floor, b.Raw())

	b.Update(-20)
	assert.InDelta(t, -55.0, b.Value(), 1e-12)
	assert.Equal(t, -20.0, b.Raw())
}

func TestBin_SettersAndFrequency(t *testing.T) {
	b := NewBin()
	b.SetAttack(0.25)
	b.SetRelease(0.75)
	b.SetFrequency(440)

	assert.Equal(t, 440.0, b.Frequency())

	b.Reset(-40)
	b.Update(0)
	assert.InDelta(t, -40*0.25, b.Value(), 1e-12)

	b.Update(-40)
	assert.InDelta(t, -10*0.75+-40*0.25, b.Value(), 1e-12)
}

func TestBin_NonFiniteInputUsesFloor(t *testing.T) {
	b := NewBin()
	b.Reset(-30)
	b.Update(math.NaN())

	assert.Equal(t, Floor, b.Raw())
	assert.False(t, math.IsNaN(b.Value()))
}

func TestNewSmoother_PicksImplementation(t *testing.T) {
	seed := domain.Frame{-10, -20}

	_, ok := NewSmoother(SymmetricFilter(0.4), seed).(*VectorSmoother)
	assert.True(t, ok)

	_, ok = NewSmoother(Filter{Attack: 0.5, Release: 0.9}, seed).(*BankSmoother)
	assert.True(t, ok)
}

func TestSmoothers_ProduceMatchingOutput(t *testing.T) {
	const factor = 0.35
	sym := SymmetricFilter(factor)

	seed := domain.Frame{-90, -70, -50, -30}
	vector := &VectorSmoother{filter: sym}
	bank := &BankSmoother{filter: sym}
	vector.Reset(seed)
	bank.Reset(seed)

	frames := []domain.Frame{
		{-20, -80, -50, -10},
		{-25, -60, -70, -40},
		{-90, -90, -90, -90},
		{0, -1, -2, -3},
	}
	for _, f := range frames {
		vector.Smooth(f)
		bank.Smooth(f)
		assert.InDeltaSlice(t, vector.Values(), bank.Values(), 1e-9)
	}
}

func TestSmoother_ResetAdoptsLength(t *testing.T) {
	for _, s := range []Smoother{
		NewSmoother(SymmetricFilter(0.5), domain.Frame{1, 2, 3}),
		NewSmoother(Filter{Attack: 0.5, Release: 0.9}, domain.Frame{1, 2, 3}),
	} {
		require.Equal(t, 3, s.Len())

		s.Reset(domain.Frame{-1, -2})
		assert.Equal(t, 2, s.Len())
		assert.Equal(t, []float64{-1, -2}, s.Values())

		s.Reset(domain.Frame{-5, -6, -7, -8, -9})
		assert.Equal(t, 5, s.Len())
		assert.Equal(t, []float64{-5, -6, -7, -8, -9}, s.Values())
	}
}

func TestVectorSmoother_SanitizesInput(t *testing.T) {
	s := NewSmoother(SymmetricFilter(0.5), domain.Frame{math.Inf(1), -10})
	assert.Equal(t, []float64{Floor, -10}, s.Values())

	s.Smooth(domain.Frame{math.NaN(), -10})
	assert.Equal(t, []float64{Floor, -10}, s.Values())
}

func TestBankSmoother_Bins(t *testing.T) {
	s := NewSmoother(Filter{Attack: 0.5, Release: 0.9}, domain.Frame{-90, -90}).(*BankSmoother)
	s.Smooth(domain.Frame{-20, -90})

	bins := s.Bins()
	require.Len(t, bins, 2)
	assert.InDelta(t, -55.0, bins[0].Value(), 1e-12)
	assert.Equal(t, -20.0, bins[0].Raw())
	assert.Equal(t, -90.0, bins[1].Value())
}
