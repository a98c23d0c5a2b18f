// Package main is the production entry point for the spectrometer.
//
// The spectrometer draws a smoothed audio spectrum, either as a line or as a
// color gradient, on a selectable frequency scale. Frames come from a
// synthetic test signal.
//
// Build:
//
//	go build -o build/spectrometer ./cmd
//
// Run:
//
//	./build/spectrometer --config spectrometer.yaml --scale root --exponent 0.5
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/integrii/flaggy"

	"github.com/tejashwikalptaru/spectrometer/internal/app"
	"github.com/tejashwikalptaru/spectrometer/internal/spectrum"
)

const appDesc = "real-time audio spectrum visualizer"

// flags holds command line overrides. Zero values leave the configuration
// file (or default) value in place.
type flags struct {
	config   string
	style    string
	scale    string
	exponent float64
	slope    string
	rate     int
	bins     int
	fps      float64
	colorMap string
	logLevel string
}

func main() {
	var f flags
	chk(parseFlags(&f), "failed to parse arguments")

	config, err := app.LoadConfig(f.config)
	chk(err, "failed to load configuration")
	chk(f.apply(&config), "invalid argument")

	// Create the application with dependency injection
	application, err := app.NewApplication(config)
	chk(err, "failed to create application")

	// Ensure a graceful shutdown
	defer func() {
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
	}()

	// Run application (blocks until the window closed)
	if err := application.Run(); err != nil {
		log.Printf("Application error: %v", err)
	}
}

func parseFlags(f *flags) error {
	parser := flaggy.NewParser("spectrometer")
	parser.Description = appDesc
	parser.Version = app.GetVersionInfo().FullString()

	parser.String(&f.config, "c", "config", "YAML configuration file")
	parser.String(&f.style, "s", "style", "drawing style (spectrum, gradient)")
	parser.String(&f.scale, "x", "scale", "frequency scale (linear, root, log)")
	parser.Float64(&f.exponent, "e", "exponent", "root scale exponent (0, 1]")
	parser.String(&f.slope, "sl", "slope", "spectral tilt in dB per octave")
	parser.Int(&f.rate, "r", "rate", "sample rate in Hz")
	parser.Int(&f.bins, "n", "bins", "bins per frame")
	parser.Float64(&f.fps, "f", "fps", "frames per second")
	parser.String(&f.colorMap, "cm", "colormap",
		"gradient color map ("+strings.Join(spectrum.ColorMapNames(), ", ")+")")
	parser.String(&f.logLevel, "l", "log-level", "log level (debug, info, warn, error)")

	return parser.Parse()
}

// apply copies every set flag into config.
func (f flags) apply(config *app.Config) error {
	v := &config.Visualizer

	if f.style != "" {
		v.Style = f.style
	}
	if f.scale != "" {
		v.Scale = f.scale
	}
	if f.exponent != 0 {
		v.Exponent = f.exponent
	}
	if f.slope != "" {
		slope, err := strconv.ParseFloat(f.slope, 64)
		if err != nil {
			return fmt.Errorf("slope %q: %w", f.slope, err)
		}
		v.Slope = slope
	}
	if f.rate != 0 {
		v.SampleRate = f.rate
	}
	if f.colorMap != "" {
		v.ColorMap = f.colorMap
	}
	if f.bins != 0 {
		config.Source.Bins = f.bins
	}
	if f.fps != 0 {
		config.Source.FPS = f.fps
	}
	if f.logLevel != "" {
		config.Log.Level = f.logLevel
	}

	return config.Validate()
}

func chk(err error, wrap string) {
	if err != nil {
		log.Fatalln(wrap+":", err)
	}
}
