package synthetic

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tejashwikalptaru/spectrometer/internal/domain"
	"github.com/tejashwikalptaru/spectrometer/internal/ports"
)

// Name identifies this source in events and logs.
const Name = "synthetic"

// Config configures a Source.
type Config struct {
	SampleRate int     // Hz
	Bins       int     // values per frame
	FPS        float64 // frames per second
	Peaks      int     // number of tonal peaks
	Jitter     float64 // per-bin noise standard deviation in dB
}

// DefaultConfig returns 512 bins at 44.1 kHz, 60 frames per second.
func DefaultConfig() Config {
	return Config{
		SampleRate: domain.DefaultSampleRate,
		Bins:       512,
		FPS:        60,
		Peaks:      3,
		Jitter:     1.5,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return domain.NewValidationError("sample_rate", c.SampleRate, "must be positive", domain.ErrInvalidSampleRate)
	}
	if c.Bins <= 0 {
		return domain.NewValidationError("bins", c.Bins, "must be positive", domain.ErrEmptyFrame)
	}
	if !(c.FPS > 0) {
		return domain.NewValidationError("fps", c.FPS, "must be positive", nil)
	}
	if c.Peaks < 0 || c.Jitter < 0 {
		return domain.NewValidationError("peaks", c.Peaks, "peaks and jitter must not be negative", nil)
	}
	return nil
}

// Source publishes generated frames on the event bus at a fixed rate.
//
// Thread-safety: Start, Stop and Running may be called from any goroutine.
type Source struct {
	// Dependencies
	logger *slog.Logger
	bus    ports.EventBus

	cfg Config
	gen *Generator

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	frames atomic.Uint64
}

// NewSource creates a stopped source.
func NewSource(bus ports.EventBus, cfg Config) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("synthetic source: %w", err)
	}
	return &Source{
		logger: slog.New(slog.DiscardHandler),
		bus:    bus,
		cfg:    cfg,
		gen:    NewGenerator(cfg.SampleRate, cfg.Bins, cfg.Peaks, cfg.Jitter),
	}, nil
}

// SetLogger sets the logger for this source.
// This should be called after construction before Start.
func (s *Source) SetLogger(logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// Start begins publishing frames until ctx is cancelled or Stop is called.
func (s *Source) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return domain.ErrSourceRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.wg.Add(1)

	interval := time.Duration(float64(time.Second) / s.cfg.FPS)
	s.logger.Info("source started",
		slog.Int("bins", s.cfg.Bins),
		slog.Int("sample_rate", s.cfg.SampleRate),
		slog.Duration("interval", interval))
	s.bus.Publish(domain.NewSourceStartedEvent(Name, s.cfg.SampleRate, s.cfg.Bins))

	go s.run(ctx, interval)
	return nil
}

func (s *Source) run(ctx context.Context, interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.finish()
			return
		case now := <-ticker.C:
			frame := s.gen.Frame(now.Sub(start).Seconds())
			seq := s.frames.Add(1)
			s.bus.Publish(domain.NewFrameReceivedEvent(frame, s.cfg.SampleRate, seq))
		}
	}
}

// finish marks the source stopped and announces it.
func (s *Source) finish() {
	s.mu.Lock()
	s.running = false
	s.cancel = nil
	logger := s.logger
	s.mu.Unlock()

	frames := s.frames.Load()
	logger.Info("source stopped", slog.Uint64("frames", frames))
	s.bus.Publish(domain.NewSourceStoppedEvent(Name, frames))
}

// Stop cancels the generator goroutine and waits for it to exit.
func (s *Source) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return domain.ErrSourceStopped
	}
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	return nil
}

// Running reports whether frames are being produced.
func (s *Source) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Frames returns the number of frames published since creation.
func (s *Source) Frames() uint64 {
	return s.frames.Load()
}

// Config returns the source configuration.
func (s *Source) Config() Config {
	return s.cfg
}

var _ ports.FrameSource = (*Source)(nil)
