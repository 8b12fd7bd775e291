// Package context defines what overlaysync commands need from the
// application: resolved configuration, a logger and build information.
//
// Commands accept this interface rather than the concrete App so they can
// be tested with MockContext:
//
//	mock := &context.MockContext{
//	    DocumentPathFunc: func() (string, error) { return path, nil },
//	}
//	cmd := merge.NewCommand(mock)
package context

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/overlaysync"
	"github.com/agentstation/overlaysync/pkg/catalog"
)

// Context provides the application context interface that commands need.
// The App struct from cmd/overlaysync/app implements it.
type Context interface {
	// Catalog loads the configured catalog. On failure it returns an empty
	// catalog together with the error, so callers can choose to degrade.
	Catalog() (*catalog.Catalog, error)

	// DocumentPath resolves the backing document: the configured path, or
	// the newest file matching the pattern in the watch directory.
	DocumentPath() (string, error)

	// Overrides returns a copy of the configured desired overrides.
	Overrides() map[string]string

	// EngineOptions returns engine options built from configuration.
	EngineOptions() []overlaysync.Option

	// Listen returns the diagnostics API address, empty when disabled.
	Listen() string

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format.
	OutputFormat() string

	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}
