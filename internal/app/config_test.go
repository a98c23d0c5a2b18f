package app

import (
	"errors"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/spectrometer/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spectrometer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 44100, config.Visualizer.SampleRate)
	assert.Equal(t, "logarithmic", config.Visualizer.Scale)
	assert.Equal(t, "spectrum", config.Visualizer.Style)
	assert.Equal(t, "#f54e47", config.Visualizer.Color)
	assert.Equal(t, "grayscale", config.Visualizer.ColorMap)
	assert.Equal(t, 512, config.Source.Bins)
	assert.NoError(t, config.Validate())

	settings, err := config.Settings()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Visualizer, config.Visualizer)
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
visualizer:
  sampleRate: 48000
  scale: root
  exponent: 0.25
  style: gradient
  color: "#00ff80"
  slope: -1.5
  colorMap: heat
source:
  bins: 1024
  fps: 30
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	settings, err := config.Settings()
	require.NoError(t, err)
	assert.Equal(t, 48000, settings.SampleRate)
	assert.Equal(t, domain.RootScale(0.25), settings.Scale)
	assert.Equal(t, domain.StyleGradient, settings.Style)
	assert.Equal(t, color.NRGBA{R: 0, G: 0xff, B: 0x80, A: 0xff}, settings.Color)
	assert.Equal(t, -1.5, settings.Slope)
	assert.Equal(t, "heat", settings.ColorMap)

	// untouched keys keep their defaults
	assert.Equal(t, domain.DefaultLineWidth, settings.LineWidth)
	assert.Equal(t, domain.DefaultAttack, settings.Attack)

	src := config.SourceConfig()
	assert.Equal(t, 48000, src.SampleRate)
	assert.Equal(t, 1024, src.Bins)
	assert.Equal(t, 30.0, src.FPS)

	lc := config.LoggerConfig()
	assert.Equal(t, slog.LevelDebug, lc.Level)
	assert.Equal(t, "json", lc.Format)
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Source, config.Source)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  error
	}{
		{name: "unknown key", content: "visualizer:\n  colour: red\n"},
		{name: "malformed", content: "visualizer: [\n"},
		{name: "bad scale", content: "visualizer:\n  scale: mel\n", target: domain.ErrUnknownScale},
		{name: "root without exponent", content: "visualizer:\n  scale: root\n", target: domain.ErrInvalidExponent},
		{name: "bad color", content: "visualizer:\n  color: red\n", target: domain.ErrInvalidColor},
		{name: "bad colormap", content: "visualizer:\n  colorMap: rainbow\n", target: domain.ErrUnknownColorMap},
		{name: "bad attack", content: "visualizer:\n  attack: 1\n", target: domain.ErrInvalidCoefficient},
		{name: "bad rate", content: "visualizer:\n  sampleRate: -1\n", target: domain.ErrInvalidSampleRate},
		{name: "no bins", content: "source:\n  bins: 0\n", target: domain.ErrEmptyFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := LoadConfig(path)
			require.Error(t, err)

			var cfgErr *domain.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, path, cfgErr.Path)

			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
