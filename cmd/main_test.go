package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/spectrometer/internal/app"
	"github.com/tejashwikalptaru/spectrometer/internal/domain"
)

func TestFlagsApply(t *testing.T) {
	config := app.DefaultConfig()
	f := flags{
		style:    "gradient",
		scale:    "root",
		exponent: 0.3,
		slope:    "0",
		rate:     48000,
		bins:     2048,
		fps:      24,
		colorMap: "heat",
		logLevel: "debug",
	}
	require.NoError(t, f.apply(&config))

	settings, err := config.Settings()
	require.NoError(t, err)
	assert.Equal(t, domain.StyleGradient, settings.Style)
	assert.Equal(t, domain.RootScale(0.3), settings.Scale)
	assert.Equal(t, 0.0, settings.Slope)
	assert.Equal(t, 48000, settings.SampleRate)
	assert.Equal(t, "heat", settings.ColorMap)
	assert.Equal(t, 2048, config.Source.Bins)
	assert.Equal(t, 24.0, config.Source.FPS)
	assert.Equal(t, "debug", config.Log.Level)
}

func TestFlagsApply_ZeroValuesKeepConfig(t *testing.T) {
	config := app.DefaultConfig()
	want := config.Visualizer

	require.NoError(t, flags{}.apply(&config))
	assert.Equal(t, want, config.Visualizer)
}

func TestFlagsApply_Invalid(t *testing.T) {
	config := app.DefaultConfig()
	assert.Error(t, flags{slope: "steep"}.apply(&config))

	config = app.DefaultConfig()
	assert.ErrorIs(t, flags{scale: "root"}.apply(&config), domain.ErrInvalidExponent)

	config = app.DefaultConfig()
	assert.ErrorIs(t, flags{colorMap: "rainbow"}.apply(&config), domain.ErrUnknownColorMap)
}
