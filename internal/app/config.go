package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"gopkg.in/yaml.v3"

	"github.com/tejashwikalptaru/spectrometer/internal/adapter/source/synthetic"
	"github.com/tejashwikalptaru/spectrometer/internal/domain"
	"github.com/tejashwikalptaru/spectrometer/internal/logger"
	"github.com/tejashwikalptaru/spectrometer/internal/spectrum"
)

// AppID is the Fyne application identifier.
const AppID = "com.spectrometer.app"

// Config holds application configuration. It is loaded from YAML and can be
// overridden by command line flags.
//
//	log:
//	  level: debug
//	visualizer:
//	  scale: root
//	  exponent: 0.5
//	  style: gradient
//	  colorMap: heat
//	source:
//	  bins: 1024
//	  fps: 30
type Config struct {
	Log        LogConfig        `yaml:"log"`
	Visualizer VisualizerConfig `yaml:"visualizer"`
	Source     SourceConfig     `yaml:"source"`

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App `yaml:"-"`
}

// LogConfig represents logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// VisualizerConfig represents the visualizer settings in file form.
type VisualizerConfig struct {
	SampleRate int     `yaml:"sampleRate"`
	Scale      string  `yaml:"scale"`    // linear, root or log
	Exponent   float64 `yaml:"exponent"` // root scale only
	Style      string  `yaml:"style"`    // spectrum or gradient
	Color      string  `yaml:"color"`    // hex, e.g. "#f54e47"
	LineWidth  float64 `yaml:"lineWidth"`
	Slope      float64 `yaml:"slope"` // dB per octave
	Attack     float64 `yaml:"attack"`
	Release    float64 `yaml:"release"`
	ColorMap   string  `yaml:"colorMap"`
}

// SourceConfig represents the synthetic frame source settings.
type SourceConfig struct {
	Bins   int     `yaml:"bins"`
	FPS    float64 `yaml:"fps"`
	Peaks  int     `yaml:"peaks"`
	Jitter float64 `yaml:"jitter"` // dB
}

// DefaultConfig returns the default application configuration. The log level
// and format honour the environment.
func DefaultConfig() Config {
	loggerCfg := logger.DefaultConfig()
	settings := domain.DefaultSettings()
	source := synthetic.DefaultConfig()

	exponent := 0.0
	if settings.Scale.Kind == domain.ScaleRoot {
		exponent = settings.Scale.Exponent
	}

	return Config{
		Log: LogConfig{
			Level:  loggerCfg.Level.String(),
			Format: loggerCfg.Format,
		},
		Visualizer: VisualizerConfig{
			SampleRate: settings.SampleRate,
			Scale:      settings.Scale.Kind.String(),
			Exponent:   exponent,
			Style:      settings.Style.String(),
			Color:      spectrum.FormatColor(settings.Color),
			LineWidth:  settings.LineWidth,
			Slope:      settings.Slope,
			Attack:     settings.Attack,
			Release:    settings.Release,
			ColorMap:   settings.ColorMap,
		},
		Source: SourceConfig{
			Bins:   source.Bins,
			FPS:    source.FPS,
			Peaks:  source.Peaks,
			Jitter: source.Jitter,
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. Unknown keys are
// rejected. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, domain.NewConfigError(path, "failed to read file", err)
	}

	if err := cfg.decode(data); err != nil {
		return cfg, domain.NewConfigError(path, "failed to parse", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, domain.NewConfigError(path, "invalid configuration", err)
	}

	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	// An empty document leaves the defaults in place.
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if _, err := c.Settings(); err != nil {
		return err
	}
	if err := c.SourceConfig().Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	return nil
}

// Settings converts the visualizer section to validated domain settings.
func (c Config) Settings() (domain.Settings, error) {
	v := c.Visualizer

	scale, err := domain.ParseScale(v.Scale, v.Exponent)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("visualizer: %w", err)
	}

	style, err := domain.ParseStyle(v.Style)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("visualizer: %w", err)
	}

	col, err := spectrum.ParseColor(v.Color)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("visualizer: %w", err)
	}

	if _, err := spectrum.ColorMapByName(v.ColorMap); err != nil {
		return domain.Settings{}, fmt.Errorf("visualizer: %w", err)
	}

	settings := domain.Settings{
		SampleRate: v.SampleRate,
		Scale:      scale,
		Style:      style,
		Color:      col,
		LineWidth:  v.LineWidth,
		Slope:      v.Slope,
		Attack:     v.Attack,
		Release:    v.Release,
		ColorMap:   v.ColorMap,
	}
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("visualizer: %w", err)
	}
	return settings, nil
}

// SourceConfig returns the synthetic source configuration. The source runs at
// the visualizer sample rate.
func (c Config) SourceConfig() synthetic.Config {
	return synthetic.Config{
		SampleRate: c.Visualizer.SampleRate,
		Bins:       c.Source.Bins,
		FPS:        c.Source.FPS,
		Peaks:      c.Source.Peaks,
		Jitter:     c.Source.Jitter,
	}
}

// LoggerConfig returns the logger configuration for this application.
func (c Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  logger.ParseLevel(c.Log.Level, slog.LevelInfo),
		Format: c.Log.Format,
	}
}
