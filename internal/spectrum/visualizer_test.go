package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/spectrometer/internal/domain"
)

func newTestVisualizer(t *testing.T, mutate func(*domain.Settings)) *Visualizer {
	t.Helper()
	s := domain.DefaultSettings()
	if mutate != nil {
		mutate(&s)
	}
	v, err := New(s)
	require.NoError(t, err)
	return v
}

func flatFrame(n int, db float64) domain.Frame {
	f := make(domain.Frame, n)
	for i := range f {
		f[i] = db
	}
	return f
}

func TestNew_InvalidSettings(t *testing.T) {
	s := domain.DefaultSettings()
	s.SampleRate = 0

	v, err := New(s)
	assert.Nil(t, v)
	assert.True(t, errors.Is(err, domain.ErrInvalidSampleRate))

	s = domain.DefaultSettings()
	s.ColorMap = "rainbow"
	_, err = New(s)
	assert.True(t, errors.Is(err, domain.ErrUnknownColorMap))
}

func TestVisualizer_FirstFrameSeeds(t *testing.T) {
	v := newTestVisualizer(t, nil)
	assert.False(t, v.Ready())
	assert.Nil(t, v.Values())

	frame := domain.Frame{-10, -20, -30, -40}
	assert.True(t, v.OnFrame(frame))

	assert.True(t, v.Ready())
	assert.Equal(t, 4, v.Len())
	assert.Equal(t, []float64{-10, -20, -30, -40}, v.Values())
	assert.Equal(t, uint64(1), v.Frames())
}

func TestVisualizer_AttackRelease(t *testing.T) {
	v := newTestVisualizer(t, nil)

	v.OnFrame(domain.Frame{-90, -20})
	v.OnFrame(domain.Frame{-20, -90})

	// rise uses attack 0.5, fall uses release 0.9
	assert.InDeltaSlice(t, []float64{-55, -27}, v.Values(), 1e-9)
}

func TestVisualizer_SteadyState(t *testing.T) {
	v := newTestVisualizer(t, nil)
	frame := domain.Frame{-12, -40, -77, -3}

	v.OnFrame(frame)
	for i := 0; i < 10; i++ {
		v.OnFrame(frame)
		assert.InDeltaSlice(t, []float64(frame), v.Values(), 1e-12)
	}
}

func TestVisualizer_Converges(t *testing.T) {
	v := newTestVisualizer(t, nil)
	v.OnFrame(flatFrame(8, -90))

	target := flatFrame(8, -30)
	for i := 0; i < 500; i++ {
		v.OnFrame(target)
	}
	assert.InDeltaSlice(t, []float64(target), v.Values(), 1e-6)
}

func TestVisualizer_EmptyFrameIgnored(t *testing.T) {
	v := newTestVisualizer(t, nil)

	assert.False(t, v.OnFrame(nil))
	assert.False(t, v.OnFrame(domain.Frame{}))
	assert.False(t, v.Ready())
	assert.Zero(t, v.Frames())

	v.OnFrame(domain.Frame{-1, -2})
	assert.False(t, v.OnFrame(nil))
	assert.Equal(t, []float64{-1, -2}, v.Values())
}

func TestVisualizer_LengthChangeReseeds(t *testing.T) {
	v := newTestVisualizer(t, nil)
	v.OnFrame(flatFrame(4, -90))
	v.OnFrame(flatFrame(4, -20))

	next := domain.Frame{-5, -6, -7, -8, -9, -10}
	assert.True(t, v.OnFrame(next))
	assert.Equal(t, 6, v.Len())
	assert.Equal(t, []float64(next), v.Values())

	shorter := domain.Frame{-1, -2}
	v.OnFrame(shorter)
	assert.Equal(t, []float64(shorter), v.Values())
}

func TestVisualizer_NonFiniteValuesUseFloor(t *testing.T) {
	v := newTestVisualizer(t, nil)
	v.OnFrame(domain.Frame{math.NaN(), math.Inf(1), -10})

	assert.Equal(t, []float64{Floor, Floor, -10}, v.Values())
}

func TestVisualizer_ValuesIsCopy(t *testing.T) {
	v := newTestVisualizer(t, nil)
	v.OnFrame(domain.Frame{-1, -2})

	vals := v.Values()
	vals[0] = 99
	assert.Equal(t, -1.0, v.Values()[0])
}

func TestVisualizer_FrameNotRetained(t *testing.T) {
	v := newTestVisualizer(t, nil)
	frame := domain.Frame{-1, -2}
	v.OnFrame(frame)

	frame[0] = 50
	assert.Equal(t, -1.0, v.Values()[0])
}

func TestVisualizer_DrawBeforeFirstFrame(t *testing.T) {
	v := newTestVisualizer(t, nil)
	surface := &recordingSurface{width: 200, height: 100}

	v.Draw(surface)
	assert.Zero(t, surface.calls())
}

func TestVisualizer_DrawZeroViewport(t *testing.T) {
	for _, style := range []domain.Style{domain.StyleSpectrum, domain.StyleGradient} {
		v := newTestVisualizer(t, func(s *domain.Settings) { s.Style = style })
		v.OnFrame(flatFrame(64, -20))

		surface := &recordingSurface{}
		v.Draw(surface)
		assert.Zero(t, surface.calls(), "style %s", style)
	}
}

func TestVisualizer_DrawSpectrum(t *testing.T) {
	v := newTestVisualizer(t, func(s *domain.Settings) {
		s.Scale = domain.LinearScale()
		s.Slope = 0
		s.LineWidth = 3
	})
	v.OnFrame(flatFrame(1024, -20))

	surface := &recordingSurface{width: 1000, height: 100}
	v.Draw(surface)
	require.Len(t, surface.strokes, 1)

	path := surface.strokes[0]
	// move-to plus one line-to per bin, DC excluded
	require.Equal(t, 1024, path.Len())
	assert.Equal(t, domain.PathCommand{Verb: domain.VerbMoveTo, Point: domain.Point{X: 0, Y: 100}}, path.Commands[0])

	// bin 512 sits near the middle of a linear axis
	mid := path.Commands[512]
	assert.Equal(t, domain.VerbLineTo, mid.Verb)
	assert.InDelta(t, 499.5459, mid.X, 1e-3)
	assert.InDelta(t, 90.0, mid.Y, 1e-9)

	assert.Equal(t, domain.Paint{Color: domain.DefaultColor, LineWidth: 3}, surface.paints[0])
}

func TestVisualizer_DrawGradient(t *testing.T) {
	for _, scale := range allScales() {
		t.Run(scale.String(), func(t *testing.T) {
			v := newTestVisualizer(t, func(s *domain.Settings) {
				s.Style = domain.StyleGradient
				s.Scale = scale
			})
			v.OnFrame(flatFrame(256, -40))

			surface := &recordingSurface{width: 640, height: 120}
			v.Draw(surface)
			require.Len(t, surface.gradients, 1)
			assert.Empty(t, surface.strokes)

			stops := surface.gradients[0]
			require.Len(t, stops, 255)
			for i := 1; i < len(stops); i++ {
				assert.Greater(t, stops[i].Position, stops[i-1].Position)
			}
		})
	}
}

func TestVisualizer_SceneAmplitudesInRange(t *testing.T) {
	v := newTestVisualizer(t, nil)
	frame := make(domain.Frame, 512)
	for i := range frame {
		frame[i] = -90 + float64(i%100)
	}
	v.OnFrame(frame)

	scene := v.Scene(800, 200)
	for _, c := range scene.Line.Commands {
		assert.GreaterOrEqual(t, c.Y, 0.0)
		assert.LessOrEqual(t, c.Y, 200.0)
	}
}

func TestVisualizer_Setters(t *testing.T) {
	v := newTestVisualizer(t, nil)

	require.NoError(t, v.SetScale(domain.RootScale(0.5)))
	require.NoError(t, v.SetStyle(domain.StyleGradient))
	require.NoError(t, v.SetColor(domain.DefaultColor))
	require.NoError(t, v.SetLineWidth(4))
	require.NoError(t, v.SetSlope(-1.5))
	require.NoError(t, v.SetSampleRate(48000))
	require.NoError(t, v.SetColorMap("heat"))

	s := v.Settings()
	assert.Equal(t, domain.RootScale(0.5), s.Scale)
	assert.Equal(t, domain.StyleGradient, s.Style)
	assert.Equal(t, 4.0, s.LineWidth)
	assert.Equal(t, -1.5, s.Slope)
	assert.Equal(t, 48000, s.SampleRate)
	assert.Equal(t, "heat", s.ColorMap)
}

func TestVisualizer_InvalidSetterKeepsSettings(t *testing.T) {
	v := newTestVisualizer(t, nil)
	before := v.Settings()

	assert.True(t, errors.Is(v.SetScale(domain.RootScale(0)), domain.ErrInvalidExponent))
	assert.True(t, errors.Is(v.SetLineWidth(0), domain.ErrInvalidLineWidth))
	assert.True(t, errors.Is(v.SetSlope(math.Inf(1)), domain.ErrInvalidSlope))
	assert.True(t, errors.Is(v.SetSampleRate(-1), domain.ErrInvalidSampleRate))
	assert.True(t, errors.Is(v.SetAttackRelease(1, 0.5), domain.ErrInvalidCoefficient))
	assert.True(t, errors.Is(v.SetColorMap("nope"), domain.ErrUnknownColorMap))
	assert.True(t, errors.Is(v.SetStyle(domain.Style(9)), domain.ErrUnknownStyle))

	assert.Equal(t, before, v.Settings())
}

func TestVisualizer_SmoothingChangeKeepsValues(t *testing.T) {
	v := newTestVisualizer(t, nil)
	v.OnFrame(domain.Frame{-10, -50})

	require.NoError(t, v.SetSmoothingFactor(0.25))
	assert.Equal(t, []float64{-10, -50}, v.Values())

	s := v.Settings()
	assert.InDelta(t, 0.75, s.Attack, 1e-12)
	assert.InDelta(t, 0.75, s.Release, 1e-12)

	// data -= factor * (data - new)
	v.OnFrame(domain.Frame{-30, -30})
	assert.InDeltaSlice(t, []float64{-15, -45}, v.Values(), 1e-9)
}

func TestVisualizer_SmoothingMatchesBetweenModes(t *testing.T) {
	frames := []domain.Frame{
		{-90, -60, -30},
		{-20, -80, -40},
		{-50, -50, -10},
		{-90, -10, -90},
	}

	symmetric := newTestVisualizer(t, nil)
	require.NoError(t, symmetric.SetAttackRelease(0.6, 0.6))

	bank := newTestVisualizer(t, nil)
	require.NoError(t, bank.SetAttackRelease(0.6, 0.6))
	// force the per-bin implementation
	bank.OnFrame(frames[0])
	bank.smoother = &BankSmoother{filter: bank.filter}
	bank.smoother.Reset(frames[0])

	symmetric.OnFrame(frames[0])
	for _, f := range frames[1:] {
		symmetric.OnFrame(f)
		bank.OnFrame(f)
		assert.InDeltaSlice(t, symmetric.Values(), bank.Values(), 1e-9)
	}
}

func TestVisualizer_Reset(t *testing.T) {
	v := newTestVisualizer(t, nil)
	v.OnFrame(domain.Frame{-1, -2, -3})
	v.Reset()

	assert.False(t, v.Ready())
	assert.Zero(t, v.Frames())
	assert.Zero(t, v.Len())

	v.OnFrame(domain.Frame{-7})
	assert.Equal(t, []float64{-7}, v.Values())
}

func TestVisualizer_SampleRateChangeMovesBins(t *testing.T) {
	v := newTestVisualizer(t, func(s *domain.Settings) {
		s.Scale = domain.LinearScale()
		s.Slope = 0
	})
	v.OnFrame(flatFrame(8, -20))

	before := v.Scene(1000, 100).Line.Commands[4].X
	require.NoError(t, v.SetSampleRate(96000))
	after := v.Scene(1000, 100).Line.Commands[4].X

	assert.NotEqual(t, before, after)
}

func TestVisualizer_Update(t *testing.T) {
	v := newTestVisualizer(t, nil)

	s := domain.DefaultSettings()
	s.Style = domain.StyleGradient
	s.Slope = 0
	require.NoError(t, v.Update(s))
	assert.Equal(t, s, v.Settings())

	bad := s
	bad.Release = 0
	require.Error(t, v.Update(bad))
	assert.Equal(t, s, v.Settings())
}
