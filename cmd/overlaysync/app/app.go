// Package app wires configuration, logging and commands for the
// overlaysync CLI. App is the single owner of the resolved configuration
// and implements the command context interface.
package app

import (
	"io"
	"maps"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/agentstation/overlaysync"
	"github.com/agentstation/overlaysync/cmd/overlaysync/context"
	"github.com/agentstation/overlaysync/internal/locate"
	"github.com/agentstation/overlaysync/pkg/catalog"
	"github.com/agentstation/overlaysync/pkg/errors"
	"github.com/agentstation/overlaysync/pkg/logging"
)

// Ensure App implements context.Context at compile time.
var _ context.Context = (*App)(nil)

// App represents the overlaysync application with all its dependencies.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	out    io.Writer

	// fixedLogger is set by WithLogger; flags then leave the logger alone
	fixedLogger bool
}

// New creates an App with configuration loaded from the environment,
// .env files and the default config file locations.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
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

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string { return a.config.Format }

// Listen returns the diagnostics API address.
func (a *App) Listen() string { return a.config.Listen }

// Overrides returns a copy of the configured overrides.
func (a *App) Overrides() map[string]string {
	return maps.Clone(a.config.Overrides)
}

// Catalog loads the configured catalog, degrading to an empty one on
// failure. The error is returned alongside so callers can report it.
func (a *App) Catalog() (*catalog.Catalog, error) {
	if a.config.Catalog == "" {
		return catalog.Empty(), &errors.ConfigError{Component: "catalog", Message: "no catalog path configured"}
	}
	return catalog.LoadOrEmpty(a.config.Catalog)
}

// DocumentPath returns the configured document, or the newest file
// matching the pattern in the watch directory. The catalog file is never
// picked.
func (a *App) DocumentPath() (string, error) {
	if a.config.Document != "" {
		return a.config.Document, nil
	}
	dir := a.config.WatchDir
	if dir == "" {
		dir = "."
	}
	var exclude []string
	if a.config.Catalog != "" {
		exclude = append(exclude, filepath.Base(a.config.Catalog))
	}
	path, err := locate.Newest(dir, a.config.Pattern, exclude...)
	if err != nil {
		return "", err
	}
	a.logger.Debug().Str("path", path).Str("dir", dir).Msg("Selected newest document")
	return path, nil
}

// EngineOptions builds engine options from configuration.
func (a *App) EngineOptions() []overlaysync.Option {
	c := a.config
	opts := []overlaysync.Option{
		overlaysync.WithLogger(a.logger.With().Str("component", "engine").Logger()),
		overlaysync.WithFSNotify(c.FSNotify),
		overlaysync.WithSettleDelay(c.SettleDelay),
	}
	if c.Catalog != "" {
		opts = append(opts, overlaysync.WithCatalogPath(c.Catalog))
	}
	if c.QuietThreshold != 0 {
		opts = append(opts, overlaysync.WithQuietThreshold(c.QuietThreshold))
	}
	if c.PollInterval != 0 {
		opts = append(opts, overlaysync.WithPollInterval(c.PollInterval))
	}
	if c.HistoryWindow != 0 {
		opts = append(opts, overlaysync.WithHistoryWindow(c.HistoryWindow))
	}
	return opts
}

// setLogger replaces the application logger and the package default.
func (a *App) setLogger(logger zerolog.Logger) {
	a.logger = &logger
	logging.SetDefault(logger)
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
		a.logger = logger
		a.fixedLogger = true
		return nil
	}
}

// WithOutput sets where commands write their output.
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.out = w
		return nil
	}
}
