package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/elevendx/internal/config"
	"github.com/specialistvlad/elevendx/internal/ctxlog"
	"github.com/specialistvlad/elevendx/internal/diagnosis"
	"github.com/specialistvlad/elevendx/internal/inmemorystore"
	"github.com/specialistvlad/elevendx/internal/session"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx    context.Context
	outW   io.Writer
	logger *slog.Logger
	config *Config

	source   config.Source
	loader   *diagnosis.Loader
	sessions *session.Manager

	watcher    *diagnosis.Watcher
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns an App with
// its own isolated logger; the diagnostic model is not loaded until Start.
func NewApp(outW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	source, err := newSource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure graph source: %w", err)
	}
	logger.Debug("Graph source configured.", "source", cfg.Source)

	return newApp(ctx, outW, cfg, source), nil
}

// NewAppWithSource builds an App around an already constructed source.
func NewAppWithSource(outW io.Writer, cfg *Config, source config.Source) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	return newApp(ctxlog.WithLogger(context.Background(), logger), outW, cfg, source)
}

func newApp(ctx context.Context, outW io.Writer, cfg *Config, source config.Source) *App {
	loader := diagnosis.NewLoader(source, cfg.DiagnosisOptions())
	return &App{
		ctx:      ctx,
		outW:     outW,
		logger:   ctxlog.FromContext(ctx),
		config:   cfg,
		source:   source,
		loader:   loader,
		sessions: session.NewManager(inmemorystore.New(), loader),
	}
}

// Context carries the application logger.
func (a *App) Context() context.Context { return a.ctx }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Config returns the validated configuration.
func (a *App) Config() *Config { return a.config }

// Loader returns the model lifecycle manager.
func (a *App) Loader() *diagnosis.Loader { return a.loader }

// Sessions returns the conversation manager.
func (a *App) Sessions() *session.Manager { return a.sessions }

// Brain returns the diagnostic model in service.
func (a *App) Brain() (*diagnosis.Brain, error) { return a.loader.Current() }
