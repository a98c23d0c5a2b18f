// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/tejashwikalptaru/spectrometer/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/spectrometer/internal/adapter/source/synthetic"
	fyneui "github.com/tejashwikalptaru/spectrometer/internal/adapter/ui/fyne"
	"github.com/tejashwikalptaru/spectrometer/internal/logger"
	"github.com/tejashwikalptaru/spectrometer/internal/service"
)

// Application is the root application structure that holds all dependencies.
//
// Wiring order: logger, event bus, visualizer service, frame source, window,
// presenter. Shutdown runs in reverse.
type Application struct {
	// Core dependencies
	logger  *slog.Logger
	fyneApp fyne.App

	// Infrastructure
	eventBus *eventbus.SyncEventBus
	source   *synthetic.Source

	// Services
	visualizer *service.VisualizerService

	// UI
	presenter  *fyneui.Presenter
	mainWindow *fyneui.MainWindow

	// Lifecycle management
	mu           sync.Mutex
	cancel       context.CancelFunc
	shutdownOnce sync.Once
}

// NewApplication creates a new application with all dependencies wired.
func NewApplication(config Config) (*Application, error) {
	settings, err := config.Settings()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{}

	// Step 1: Create logger
	app.logger = logger.NewLogger(config.LoggerConfig())
	app.logger.Info("initializing application",
		slog.String("version", GetVersionInfo().FullString()),
		slog.String("scale", settings.Scale.String()),
		slog.String("style", settings.Style.String()))

	// Step 2: Create an event bus
	app.eventBus = eventbus.NewSyncEventBus()
	app.eventBus.SetLogger(app.logger.With(slog.String("component", "eventbus")))

	// Step 3: Create the visualizer service
	app.visualizer, err = service.NewVisualizerService(
		app.logger.With(slog.String("service", "visualizer")),
		app.eventBus,
		settings,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create visualizer service: %w", err)
	}

	// Step 4: Create the frame source
	app.source, err = synthetic.NewSource(app.eventBus, config.SourceConfig())
	if err != nil {
		_ = app.visualizer.Shutdown()
		return nil, fmt.Errorf("failed to create frame source: %w", err)
	}
	app.source.SetLogger(app.logger.With(slog.String("source", synthetic.Name)))

	// Step 5: Create Fyne application and window
	if config.TestFyneApp != nil {
		app.fyneApp = config.TestFyneApp
	} else {
		app.fyneApp = fyneapp.NewWithID(AppID)
	}
	app.mainWindow = fyneui.NewMainWindow(app.fyneApp, app.visualizer)

	// Step 6: Create Presenter and wire with UI
	app.presenter = fyneui.NewPresenter(
		app.logger.With(slog.String("component", "presenter")),
		app.visualizer,
		app.eventBus,
		app.mainWindow,
	)
	app.mainWindow.SetPresenter(app.presenter)

	// Stop producing frames before the window goes away.
	app.mainWindow.SetOnBeforeClose(app.stopSource)

	return app, nil
}

// Start starts the frame source. It does not block.
func (a *Application) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	if err := a.source.Start(ctx); err != nil {
		cancel()
		return fmt.Errorf("failed to start frame source: %w", err)
	}
	a.cancel = cancel
	return nil
}

// Run starts the frame source and blocks in the window event loop until the
// window is closed.
func (a *Application) Run() error {
	if err := a.Start(context.Background()); err != nil {
		return err
	}

	a.logger.Info("spectrometer started")
	a.mainWindow.ShowAndRun()
	return nil
}

func (a *Application) stopSource() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	if err := a.source.Stop(); err != nil {
		a.logger.Debug("frame source already stopped", slog.Any("error", err))
	}
	cancel()
}

// Shutdown gracefully shuts down the application.
// It's safe to call multiple times (idempotent).
func (a *Application) Shutdown() error {
	var err error
	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down application")

		if a.presenter != nil {
			a.presenter.Shutdown()
		}

		a.stopSource()

		if a.visualizer != nil {
			stats := a.visualizer.Stats()
			a.logger.Info("visualizer stopped",
				slog.Uint64("frames", stats.Frames),
				slog.Uint64("gaps", stats.Gaps))
			if e := a.visualizer.Shutdown(); e != nil {
				a.logger.Warn("failed to shutdown visualizer service", slog.Any("error", e))
				err = e
			}
		}

		if e := a.eventBus.Close(); e != nil {
			a.logger.Warn("failed to close event bus", slog.Any("error", e))
		}

		a.logger.Info("application shutdown complete")
	})
	return err
}

// GetVisualizer returns the visualizer service.
func (a *Application) GetVisualizer() *service.VisualizerService {
	return a.visualizer
}

// GetSource returns the frame source.
func (a *Application) GetSource() *synthetic.Source {
	return a.source
}

// GetEventBus returns the event bus.
func (a *Application) GetEventBus() *eventbus.SyncEventBus {
	return a.eventBus
}

// GetFyneApp returns the Fyne application.
func (a *Application) GetFyneApp() fyne.App {
	return a.fyneApp
}

// GetMainWindow returns the main window.
func (a *Application) GetMainWindow() *fyneui.MainWindow {
	return a.mainWindow
}
