// Package app provides the application context and dependency management
// for the haccp CLI. It centralizes configuration, logging and the loaded
// evaluation tables so commands receive them through one interface.
package app

import (
	"context"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/haccpkit/haccp/internal/cmd/output"
	"github.com/haccpkit/haccp/pkg/errors"
	"github.com/haccpkit/haccp/pkg/logging"
	"github.com/haccpkit/haccp/pkg/reconcile"
	"github.com/haccpkit/haccp/pkg/schema"
	"github.com/haccpkit/haccp/pkg/sources"
)

// App represents the haccp application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	flags  *Config
	logger *zerolog.Logger

	// Result of the first load (lazy-initialized, reused by every command)
	mu     sync.Mutex
	result *reconcile.Result
}

// New creates a new App instance with the given version information.
// Configuration is read from config files, .env files and the environment;
// flags are applied once cobra has parsed them.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		flags:   &Config{},
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}
	logging.SetDefault(*app.logger)

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Output
}

// UseColor reports whether status output on stderr may be coloured.
func (a *App) UseColor() bool {
	return !a.config.NoColor && os.Getenv("NO_COLOR") == "" && output.IsTerminal(os.Stderr)
}

// FontPath returns the configured chart font.
func (a *App) FontPath() string {
	return a.config.FontPath
}

// Manifest returns the manifest from --manifest, or the built-in one, with
// --data-dir applied when set.
func (a *App) Manifest() (*schema.Manifest, error) {
	m := schema.Default()
	if a.config.ManifestPath != "" {
		loaded, err := schema.LoadManifest(a.config.ManifestPath)
		if err != nil {
			return nil, err
		}
		m = loaded
	}
	if a.config.DataDir != "" {
		m = m.WithDataDir(a.config.DataDir)
	}
	return m, nil
}

// Reader returns a CSV reader using the configured encoding.
func (a *App) Reader() (sources.Reader, error) {
	enc, err := sources.ParseEncoding(a.config.Encoding)
	if err != nil {
		return nil, errors.NewConfigError("encoding", "invalid --encoding", err)
	}
	return sources.NewReader(
		sources.WithEncoding(enc),
		sources.WithLogger(a.logger),
	)
}

// Load runs the reconciler on first use and returns the cached result
// afterwards. It is safe for concurrent use.
func (a *App) Load(ctx context.Context) (*reconcile.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.result != nil {
		return a.result, nil
	}

	manifest, err := a.Manifest()
	if err != nil {
		return nil, err
	}
	reader, err := a.Reader()
	if err != nil {
		return nil, err
	}

	// Commands tag the context logger with their operation; keep it.
	if _, ok := logging.Lookup(ctx); !ok {
		ctx = logging.WithLogger(ctx, a.logger)
	}
	result, err := reconcile.Load(ctx,
		reconcile.WithManifest(manifest),
		reconcile.WithReader(reader),
		reconcile.WithFailOnEmpty(a.config.FailOnEmpty),
	)
	if err != nil {
		return nil, err
	}

	a.result = result
	return result, nil
}

// Shutdown releases cached state. Loads hold no open handles, so this only
// drops the cached result.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.result = nil
	a.logger.Debug().Msg("Application shut down")
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return &errors.ValidationError{Field: "config", Message: "cannot be nil"}
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		if logger == nil {
			return &errors.ValidationError{Field: "logger", Message: "cannot be nil"}
		}
		a.logger = logger
		return nil
	}
}

// WithResult preloads a result so Load skips the reconciler (useful for testing).
func WithResult(result *reconcile.Result) Option {
	return func(a *App) error {
		a.result = result
		return nil
	}
}
