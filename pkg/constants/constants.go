// Package constants provides shared constants used throughout the overlaysync codebase.
// This includes debounce timings, history limits, file permissions and the
// default locations the CLI looks at when nothing else is configured.
package constants

import "time"

// Timing constants drive the reconciliation scheduler
const (
	// DefaultPollInterval is how often the worker checks the document for changes
	DefaultPollInterval = 200 * time.Millisecond

	// DefaultQuietThreshold is the minimum time since the last observed write
	// before a reconcile may fire
	DefaultQuietThreshold = 600 * time.Millisecond

	// DefaultSettleDelay is the extra wait after the quiet threshold is met
	// and before the merge, so a writer still flushing is not raced
	DefaultSettleDelay = 80 * time.Millisecond

	// ShutdownTimeout bounds graceful shutdown of the worker and HTTP server
	ShutdownTimeout = 5 * time.Second

	// ReadHeaderTimeout is the read header timeout of the diagnostics server
	ReadHeaderTimeout = 10 * time.Second
)

// Conflict history constants
const (
	// DefaultHistoryWindow is the number of observations kept per key
	DefaultHistoryWindow = 10

	// DefaultElevatedThreshold is the in-window conflict count at which a key becomes elevated
	DefaultElevatedThreshold = 3

	// DefaultHighThreshold is the in-window conflict count at which a key becomes high
	DefaultHighThreshold = 6
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Path constants
const (
	// DefaultCatalogFile is the catalog file looked up next to the working directory
	DefaultCatalogFile = "allowed_cosmetics.json"

	// DefaultDocumentPattern is the glob used to pick the newest document in a watch directory
	DefaultDocumentPattern = "*.json"

	// DefaultConfigName is the config file name (without extension) searched in $HOME and .
	DefaultConfigName = ".overlaysync"

	// EnvPrefix is the prefix for environment variable configuration
	EnvPrefix = "OVERLAYSYNC"

	// TempPattern is the suffix pattern of the persister's temporary siblings
	TempPattern = ".*.tmp"
)

// HTTP constants for the diagnostics API
const (
	// DefaultAPIPrefix is the path prefix for versioned endpoints
	DefaultAPIPrefix = "/api/v1"

	// MaxRequestBodyBytes caps request bodies accepted by the diagnostics API
	MaxRequestBodyBytes = 64 * 1024
)
